// Package logtail reads the end of lineup's log file for the in-app log view.
package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Level is a coarse severity inferred from a log message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Line is one parsed log line.
type Line struct {
	Time    time.Time
	Level   Level
	Message string
	Raw     string
}

// stdLayout matches log.LstdFlags output.
const stdLayout = "2006/01/02 15:04:05"

// Read returns at most maxLines from the end of the file at path. maxLines <= 0
// returns every line. A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Parse splits a standard logger line into its timestamp, an inferred level
// and the message. Lines without a timestamp keep a zero Time.
func Parse(raw string) Line {
	line := Line{Raw: raw, Message: strings.TrimSpace(raw)}
	// The tea.LogToFile prefix sits before the timestamp.
	msg := line.Message
	if i := strings.Index(msg, " "); i > 0 && !startsWithDigit(msg) {
		msg = strings.TrimSpace(msg[i+1:])
	}
	if len(msg) >= len(stdLayout) {
		if t, err := time.ParseInLocation(stdLayout, msg[:len(stdLayout)], time.Local); err == nil {
			line.Time = t
			msg = strings.TrimSpace(msg[len(stdLayout):])
		}
	}
	if !line.Time.IsZero() {
		line.Message = msg
	}
	line.Level = classify(line.Message)
	return line
}

// ParseAll parses every line.
func ParseAll(raw []string) []Line {
	out := make([]Line, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		out = append(out, Parse(r))
	}
	return out
}

func classify(msg string) Level {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"):
		return LevelError
	case strings.Contains(lower, "duplicate"), strings.Contains(lower, "warn"), strings.Contains(lower, "evicted"):
		return LevelWarn
	default:
		return LevelInfo
	}
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
