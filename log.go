package thermos

import (
	"sync"

	"github.com/fatih/color"
)

var gLogLock sync.Mutex

func log(a ...interface{}) {
	gLogLock.Lock()
	defer gLogLock.Unlock()

	for i := 0; i < len(a); i += 2 {
		if s := a[i].(string); s != "" {
			_, _ = color.New(a[i+1].(color.Attribute), color.Bold).Print(s)
		}
	}
}

func LogAuth(auth string) {
	log(auth, color.FgMagenta)
}

func LogInput(body string) {
	log(body, color.FgMagenta)
}

func LogError(head string, e error) {
	log(head, color.FgRed, getStandardOut(e.Error()), color.FgRed)
}

func LogNotice(head string, body string) {
	log(head, color.FgGreen, body, color.FgYellow)
}
