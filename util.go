package thermos

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"
)

func getStandardOut(s string) string {
	if s != "" && s[len(s)-1] != '\n' {
		return s + "\n"
	} else {
		return s
	}
}

func IsFile(path string) bool {
	f, e := os.Stat(path)
	return e == nil && f.Mode().IsRegular()
}

func GetPasswordFromUser(head string) (string, error) {
	LogAuth(head)
	bytePassword, e := term.ReadPassword(int(syscall.Stdin))
	fmt.Println("")
	if e != nil {
		return "", e
	}
	return string(bytePassword), nil
}

func GetInputFromUser(head string) (string, error) {
	LogInput(head)
	input := ""
	if _, e := fmt.Scanf("%s", &input); e != nil {
		return "", e
	}
	return input, nil
}
