package archive

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/pkg/browser"

	"github.com/andy/invoicer/internal/domain"
)

// Opener shows a file to the user
type Opener interface {
	Open(path string) error
}

// Launcher is one way of opening a file
type Launcher struct {
	Name string
	Run  func(path string) error
}

// ChainOpener tries each launcher in order until one succeeds
type ChainOpener []Launcher

// Open returns nil on the first launcher that succeeds. When all fail the
// error matches domain.ErrPlatform and carries every attempt.
func (c ChainOpener) Open(path string) error {
	errs := []error{domain.ErrPlatform}
	for _, l := range c {
		err := l.Run(path)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", l.Name, err))
	}
	return errors.Join(errs...)
}

// command runs name with args plus the path. The platform openers hand the
// file to a viewer and exit, so a non-zero exit status means nothing opened it.
func command(name string, args ...string) Launcher {
	return Launcher{
		Name: name,
		Run: func(path string) error {
			return exec.Command(name, append(args, path)...).Run()
		},
	}
}

// browserLauncher hands the file to the desktop's default URL handler
func browserLauncher() Launcher {
	return Launcher{
		Name: "browser",
		Run: func(path string) error {
			browser.Stdout = io.Discard
			browser.Stderr = io.Discard
			return browser.OpenFile(path)
		},
	}
}

// DefaultOpener is the native viewer chain for the running platform
func DefaultOpener() ChainOpener {
	switch runtime.GOOS {
	case "darwin":
		return ChainOpener{
			command("open"),
			command("open", "-a", "Preview"),
			browserLauncher(),
		}
	case "windows":
		return ChainOpener{
			command("rundll32", "url.dll,FileProtocolHandler"),
			command("cmd", "/c", "start", ""),
			browserLauncher(),
		}
	default:
		return ChainOpener{
			command("xdg-open"),
			command("gio", "open"),
			browserLauncher(),
		}
	}
}
