// SPDX-FileCopyrightText: © 2024 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"io"
	"log/slog"
	"os"
	"time"

	. "github.com/phsym/console-slog" //nolint:revive,staticcheck
	"golang.org/x/term"

	"codeberg.org/readeck/fontgrab/internal/httpclient"
)

// newLogger returns a console logger writing to w.
// Colors are only used when w is a terminal.
func newLogger(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	theme := stdLogTheme
	if !noColor && isTerminal(w) {
		theme = termLogTheme
	} else {
		noColor = true
	}

	return slog.New(NewHandler(w, &HandlerOptions{
		Level:      level,
		NoColor:    noColor,
		Theme:      theme,
		TimeFormat: time.TimeOnly,
	}))
}

func isTerminal(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type consoleTheme struct {
	timestamp      ANSIMod
	source         ANSIMod
	message        ANSIMod
	messageDebug   ANSIMod
	attrKey        ANSIMod
	attrValue      ANSIMod
	attrValueError ANSIMod
	levelError     ANSIMod
	levelWarn      ANSIMod
	levelInfo      ANSIMod
	levelDebug     ANSIMod
	levelTrace     ANSIMod
}

func (t consoleTheme) Name() string            { return "" }
func (t consoleTheme) Timestamp() ANSIMod      { return t.timestamp }
func (t consoleTheme) Source() ANSIMod         { return t.source }
func (t consoleTheme) Message() ANSIMod        { return t.message }
func (t consoleTheme) MessageDebug() ANSIMod   { return t.messageDebug }
func (t consoleTheme) AttrKey() ANSIMod        { return t.attrKey }
func (t consoleTheme) AttrValue() ANSIMod      { return t.attrValue }
func (t consoleTheme) AttrValueError() ANSIMod { return t.attrValueError }
func (t consoleTheme) LevelError() ANSIMod     { return t.levelError }
func (t consoleTheme) LevelWarn() ANSIMod      { return t.levelWarn }
func (t consoleTheme) LevelInfo() ANSIMod      { return t.levelInfo }
func (t consoleTheme) LevelDebug() ANSIMod     { return t.levelDebug }
func (t consoleTheme) Level(level slog.Level) ANSIMod {
	switch {
	case level >= slog.LevelError:
		return t.LevelError()
	case level >= slog.LevelWarn:
		return t.LevelWarn()
	case level >= slog.LevelInfo:
		return t.LevelInfo()
	case level > httpclient.LevelTrace:
		return t.LevelDebug()
	default:
		return t.levelTrace
	}
}

var stdLogTheme = consoleTheme{}

// termLogTheme keeps font events readable: file names and URLs are
// attribute values, HTTP trace records fade out.
var termLogTheme = consoleTheme{
	timestamp:      ToANSICode(Faint),
	source:         ToANSICode(Faint),
	message:        ToANSICode(Bold),
	messageDebug:   ToANSICode(Faint),
	attrKey:        ToANSICode(Blue),
	attrValue:      ToANSICode(White),
	attrValueError: ToANSICode(Bold, BrightRed),
	levelError:     ToANSICode(Bold, BrightRed),
	levelWarn:      ToANSICode(Bold, Yellow),
	levelInfo:      ToANSICode(Bold, Green),
	levelDebug:     ToANSICode(Bold, Magenta),
	levelTrace:     ToANSICode(Faint, Magenta),
}
