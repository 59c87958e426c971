package main

import (
	"os/exec"
	"runtime"
)

// openBrowser 用系统默认浏览器打开 url，失败时依次尝试常见浏览器
func openBrowser(url string) error {
	var candidates [][]string
	switch runtime.GOOS {
	case "windows":
		candidates = [][]string{{"rundll32", "url.dll,FileProtocolHandler"}, {"explorer"}}
	case "darwin":
		candidates = [][]string{{"open"}}
	default:
		candidates = [][]string{{"xdg-open"}, {"sensible-browser"}, {"firefox"}, {"google-chrome"}}
	}

	var err error
	for _, c := range candidates {
		args := append(c[1:len(c):len(c)], url)
		if err = exec.Command(c[0], args...).Start(); err == nil {
			return nil
		}
	}
	return err
}
