package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompt walks the user through the commonly edited settings, showing the
// current value of each. An empty answer keeps the current value; a single
// "-" clears it. List values are entered comma separated.
func Prompt(in io.Reader, out io.Writer, cfg *Config) error {
	if cfg == nil {
		return errors.New("prompt: nil config")
	}
	p := &prompter{reader: bufio.NewReader(in), out: out}

	p.text("Plex host (scheme and address)", &cfg.Plex.Host)
	p.number("Plex port", &cfg.Plex.Port)
	p.secret("Plex token", &cfg.Plex.Token)
	p.list("Libraries (names or ids)", &cfg.Plex.Libraries)
	p.text("Delete items watched longer ago than (e.g. 1d 2h 30m, 0 to disable)", &cfg.Cleanup.OlderThan)
	p.list("Whitelist (exact titles)", &cfg.Cleanup.Whitelist)
	p.text("IFTTT webhook URL", &cfg.Notifications.IFTTTWebhook)
	p.text("ntfy topic URL", &cfg.Notifications.NtfyTopic)
	p.secret("Pushbullet API key", &cfg.Notifications.PushbulletAPIKey)
	p.text("CSV report path", &cfg.Report.CSVPath)

	if p.err != nil {
		return p.err
	}
	return cfg.normalize()
}

type prompter struct {
	reader *bufio.Reader
	out    io.Writer
	err    error
}

func (p *prompter) ask(label, current string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		p.err = fmt.Errorf("read answer: %w", err)
		return "", false
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
		return "", false
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return "", false
	}
	if answer == "-" {
		return "", true
	}
	return answer, true
}

func (p *prompter) text(label string, target *string) {
	if answer, ok := p.ask(label, *target); ok {
		*target = answer
	}
}

func (p *prompter) secret(label string, target *string) {
	shown := ""
	if *target != "" {
		shown = maskSecret(*target)
	}
	if answer, ok := p.ask(label, shown); ok {
		*target = answer
	}
}

func (p *prompter) number(label string, target *int) {
	for {
		answer, ok := p.ask(label, strconv.Itoa(*target))
		if !ok {
			return
		}
		value, err := strconv.Atoi(answer)
		if err == nil {
			*target = value
			return
		}
		fmt.Fprintf(p.out, "%q is not a number\n", answer)
	}
}

func (p *prompter) list(label string, target *[]string) {
	if answer, ok := p.ask(label, strings.Join(*target, ", ")); ok {
		*target = SplitList(answer)
	}
}

func maskSecret(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
