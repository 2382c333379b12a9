// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// output is the terminal output used for colour detection.
// Colours are dropped when stderr is not a terminal.
var output = termenv.NewOutput(os.Stderr)

func colorize(hex string, s string) string {
	return output.String(s).Foreground(output.Color(hex)).String()
}

// ErrorColor returns the given string in the error colour.
func ErrorColor(s string) string { return colorize("#e5534b", s) }

// WarnColor returns the given string in the warning colour.
func WarnColor(s string) string { return colorize("#c69026", s) }

// SuccessColor returns the given string in the success colour.
func SuccessColor(s string) string { return colorize("#57ab5a", s) }

// CmdColor returns the given string in the colour used for commands.
func CmdColor(s string) string { return colorize("#6cb6ff", s) }

// DebugColor returns the given string in the colour used for debug output.
func DebugColor(s string) string { return colorize("#768390", s) }

// LevelColor returns the given string in the colour matching the level.
func LevelColor(level slog.Level, s string) string {
	switch {
	case level >= slog.LevelError:
		return ErrorColor(s)
	case level >= slog.LevelWarn:
		return WarnColor(s)
	case level >= slog.LevelInfo:
		return s
	default:
		return DebugColor(s)
	}
}

// PrintlnWarn prints the given arguments at the warning level, if
// [UserLevel] allows it.
func PrintlnWarn(a ...any) {
	if UserLevel <= slog.LevelWarn {
		fmt.Fprintln(os.Stderr, WarnColor(fmt.Sprint(a...)))
	}
}

// PrintlnInfo prints the given arguments at the info level, if
// [UserLevel] allows it.
func PrintlnInfo(a ...any) {
	if UserLevel <= slog.LevelInfo {
		fmt.Println(a...)
	}
}
