package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap/buffer"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// The formatter never drops data: malformed special keys are rendered with a
// marker instead of failing the whole message.

// Removes the key from parsedMsg and returns its value as a string. Values of
// other types are rendered with a MALFORMED marker.
func maybeExtractSpecialKey(parsedMsg map[string]any, key string) (string, bool) {
	val, ok := parsedMsg[key]
	if !ok {
		return "", false
	}

	delete(parsedMsg, key)
	strVal, ok := val.(string)
	if !ok {
		return fmt.Sprintf("<MALFORMED %v OF TYPE %T>", val, val), true
	}
	return strVal, true
}

func extractSpecialKey(parsedMsg map[string]any, key string) string {
	val, ok := maybeExtractSpecialKey(parsedMsg, key)
	if !ok {
		return "<MISSING " + key + ">"
	}
	return val
}

var bufferPool = buffer.NewPool()

var errNotOurs = errors.New("JSON log message in a foreign format")

// JSONLogMessage formats a single zap JSON log entry for the console.
//
// prevTimestamp is the timestamp of the previous entry: the part of the
// current timestamp shared with it is deemphasized.
func JSONLogMessage(logMessage []byte, prevTimestamp string, color bool) (*buffer.Buffer, string, error) {
	var parsedMsg map[string]any
	if err := json.Unmarshal(logMessage, &parsedMsg); err != nil {
		return nil, "", err
	}

	// JSON lines written by something other than zap
	if _, ok := parsedMsg["ts"]; !ok {
		return nil, "", errNotOurs
	}

	level := extractSpecialKey(parsedMsg, "level")
	ts := extractSpecialKey(parsedMsg, "ts")
	caller := extractSpecialKey(parsedMsg, "caller")
	msg := extractSpecialKey(parsedMsg, "msg")

	logger, _ := maybeExtractSpecialKey(parsedMsg, "logger")
	errorStr, haveError := maybeExtractSpecialKey(parsedMsg, "error")
	multilineError := haveError && strings.Contains(errorStr, "\n")

	buf := bufferPool.Get()
	style := consoleStyles[color]

	if dateTimeRx.MatchString(ts) {
		formatTimestamp(buf, ts, style, prevTimestamp)
	} else {
		formatString(buf, ts)
	}
	buf.AppendByte(' ')
	formatLevel(buf, level, style)

	buf.AppendByte(' ')
	style(buf, titleColor, msg)

	keys := maps.Keys(parsedMsg)
	slices.Sort(keys)

	var multilineFields, payloads []string
	for _, field := range keys {
		if v, ok := parsedMsg[field].(string); ok && strings.Contains(v, "\n") {
			multilineFields = append(multilineFields, field)
			continue
		}
		if payloadFields[field] {
			payloads = append(payloads, field)
			continue
		}

		buf.AppendByte(' ')
		style(buf, fieldColor, field+"=")
		formatValue(buf, parsedMsg[field], style)
	}

	for _, field := range payloads {
		buf.AppendByte(' ')
		style(buf, fieldColor, field+"=")
		plain := bufferPool.Get()
		formatValue(plain, parsedMsg[field], consoleStyles[false])
		style(buf, payloadColor, plain.String())
		plain.Free()
	}

	// Single-line error goes last
	if haveError && !multilineError {
		buf.AppendByte(' ')
		style(buf, errorColor, "error=")
		formatString(buf, errorStr)
	}

	buf.AppendString(" [")
	buf.AppendString(logger)
	buf.AppendString("] (")
	style(buf, callerColor, caller)
	buf.AppendString(")\n")

	if multilineError {
		formatMultilineString(buf, "error", errorStr, style, errorColor)
	}
	for _, field := range multilineFields {
		formatMultilineString(buf, field, parsedMsg[field].(string), style, fieldColor)
	}
	if multilineError || len(multilineFields) > 0 {
		style(buf, fieldColor, "----------")
		buf.AppendByte('\n')
	}

	return buf, ts, nil
}

func formatLevel(buf *buffer.Buffer, level string, style styleFn) {
	switch level {
	case "debug":
		style(buf, debugColor, "DBG")
	case "info":
		style(buf, infoColor, "INF")
	case "warn":
		style(buf, warnColor, "WRN")
	default:
		upper := strings.ToUpper(level)
		if len(upper) > 3 {
			upper = upper[:3]
		}
		style(buf, errorColor, upper)
	}
}

func formatValue(buf *buffer.Buffer, value any, style styleFn) {
	switch v := value.(type) {
	case float64:
		fmt.Fprintf(buf, "%.22g", v) // integers stay integers
	case bool:
		fmt.Fprintf(buf, "%#v", v)
	case nil:
		buf.AppendString("null")
	case string:
		formatTimestampOrString(buf, v, style)
	case map[string]any:
		formatMap(buf, v, style)
	case []any:
		formatArray(buf, v, style)
	default:
		panic("unreachable")
	}
}

func formatMap(buf *buffer.Buffer, value map[string]any, style styleFn) {
	style(buf, objectPunctuationColor, "{")
	keys := maps.Keys(value)
	slices.Sort(keys)
	for i, field := range keys {
		if i > 0 {
			style(buf, objectPunctuationColor, ", ")
		}
		style(buf, subFieldColor, field)
		style(buf, objectPunctuationColor, ":")
		buf.AppendByte(' ')
		formatValue(buf, value[field], style)
	}
	style(buf, objectPunctuationColor, "}")
}

func formatArray(buf *buffer.Buffer, value []any, style styleFn) {
	style(buf, arrayPunctuationColor, "[")
	for i, val := range value {
		if i > 0 {
			style(buf, arrayPunctuationColor, ", ")
		}
		formatValue(buf, val, style)
	}
	style(buf, arrayPunctuationColor, "]")
}

var dateTimeRx = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})T(\d{2}:\d{2}:\d{2}(?:.\d+)?)(Z|[+-]\d{2}:\d{2})$`)

func commonPrefixLength(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func formatTimestamp(buf *buffer.Buffer, ts string, style styleFn, previousTS string) {
	m := dateTimeRx.FindStringSubmatch(ts)
	cpl := commonPrefixLength(ts, previousTS)

	common, unique := splitAt(m[1], cpl)
	style(buf, commonDatePartColor, common)
	buf.AppendString(unique)

	style(buf, deemphasizedDatePartColor, "T")

	common, unique = splitAt(m[2], cpl-len(m[1])-1)
	style(buf, commonDatePartColor, common)
	buf.AppendString(unique)

	// Only UTC is expected, other zones are shown as is
	if m[3] == "Z" {
		style(buf, deemphasizedDatePartColor, "Z")
	} else {
		buf.AppendString(m[3])
	}
}

func splitAt(s string, pos int) (before, after string) {
	if pos <= 0 {
		return "", s
	}
	if pos >= len(s) {
		return s, ""
	}
	return s[:pos], s[pos:]
}

func formatTimestampOrString(buf *buffer.Buffer, s string, style styleFn) {
	if dateTimeRx.MatchString(s) {
		formatTimestamp(buf, s, style, "")
	} else {
		formatString(buf, s)
	}
}

func formatString(buf *buffer.Buffer, s string) {
	if strings.Contains(s, `"`) || strings.Contains(s, `\`) {
		fmt.Fprintf(buf, "%#q", s)
		return
	}
	fmt.Fprintf(buf, "%q", s)
}

func formatMultilineString(buf *buffer.Buffer, field string, value string, style styleFn, c color) {
	style(buf, c, "----- "+field+" -----")
	buf.AppendByte('\n')
	buf.AppendString(value)
	if !strings.HasSuffix(value, "\n") {
		buf.AppendByte('\n')
	}
}
