package formatter

import "go.uber.org/zap/buffer"

type color string

// See https://en.wikipedia.org/wiki/ANSI_escape_code#SGR_(Select_Graphic_Rendition)_parameters
const (
	reset          color = "\x1b[0m"
	bold           color = "\x1b[1m"
	italic         color = "\x1b[3m"
	fgRed          color = "\x1b[31m"
	fgGreen        color = "\x1b[32m"
	fgYellow       color = "\x1b[33m"
	fgBlue         color = "\x1b[34m"
	fgMagenta      color = "\x1b[35m"
	fgCyan         color = "\x1b[36m"
	fgGray         color = "\x1b[90m"
	fgBrightYellow color = "\x1b[93m"
)

const (
	debugColor                = fgMagenta
	infoColor                 = fgBlue
	warnColor                 = fgYellow
	errorColor                = fgRed
	titleColor                = fgCyan
	fieldColor                = fgGreen
	subFieldColor             = fgBlue
	payloadColor              = fgGray
	callerColor               = italic
	deemphasizedDatePartColor = fgGray
	commonDatePartColor       = fgBlue
	objectPunctuationColor    = fgYellow
	arrayPunctuationColor     = fgBrightYellow
)

// payloadFields hold request and response contents. They are printed last
// and without inner coloring so that the title stands out.
var payloadFields = map[string]bool{
	"request":  true,
	"response": true,
}

type styleFn func(*buffer.Buffer, color, string)

var consoleStyles = map[bool]styleFn{
	true: func(buf *buffer.Buffer, c color, text string) {
		if text != "" {
			buf.AppendString(string(c))
			buf.AppendString(text)
			buf.AppendString(string(reset))
		}
	},
	false: func(buf *buffer.Buffer, _ color, text string) {
		buf.AppendString(text)
	},
}
