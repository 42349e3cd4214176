// Copyright © 2023-2024 The frakka Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-colorable"
	"github.com/shenwei356/go-logging"
)

var logFormat = logging.MustStringFormatter(`%{time:2006-01-02 15:04:05} %{color}[%{level:.4s}]%{color:reset} %{message}`)

var logFormatFile = logging.MustStringFormatter(`%{time:2006-01-02 15:04:05} [%{level:.4s}] %{message}`)

func stderrBackend() logging.Backend {
	var stderr io.Writer = os.Stderr
	if runtime.GOOS == "windows" {
		stderr = colorable.NewColorableStderr()
	}
	return logging.NewBackendFormatter(logging.NewLogBackend(stderr, "", 0), logFormat)
}

// InitLog sets the default log backend: stderr.
func InitLog() {
	logging.SetBackend(stderrBackend())
}

// addLog also writes log to a file.
func addLog(file string, verbose bool) *os.File {
	w, err := os.Create(file)
	if err != nil {
		checkError(err)
	}

	backendFile := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), logFormatFile)
	if verbose {
		logging.SetBackend(stderrBackend(), backendFile)
	} else {
		// errors are still shown
		backend := logging.AddModuleLevel(stderrBackend())
		backend.SetLevel(logging.ERROR, "")
		logging.SetBackend(backend, backendFile)
	}
	return w
}

// logKraken is used by the parsing and aggregation of Kraken files.
var logKraken = logging.MustGetLogger("kraken")

// krakenLogger returns logKraken, which only shows warnings and errors
// if no verbose information is needed.
func krakenLogger(opt *Options) *logging.Logger {
	if !opt.Verbose && !opt.Log2File {
		logging.SetLevel(logging.WARNING, "kraken")
	}
	return logKraken
}
