// Command lingopad is a terminal client for the lingopad server: a streaming
// chat REPL and a translator.
//
//	go run . -server http://localhost:8100 chat
//	go run . translate -from zh -to en 你好
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/RichardoC/lingopad/internal/client"
	"github.com/RichardoC/lingopad/internal/config"
	"github.com/RichardoC/lingopad/internal/logger"
	"github.com/RichardoC/lingopad/internal/models"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8100", "lingopad server URL")
	model := flag.String("model", "", "model override for chat (empty uses the server default)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] chat | translate [-from code] [-to code] [text]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := "warn"
	if *debug {
		level = "debug"
	}
	log, err := logger.New(config.LoggerConfig{Level: level, Format: "console"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	c := client.New(*serverURL, nil)

	args := flag.Args()
	mode := "chat"
	if len(args) > 0 {
		mode, args = args[0], args[1:]
	}

	switch mode {
	case "chat":
		err = runChat(c, *model, os.Stdin, os.Stdout, log)
	case "translate":
		err = runTranslate(c, args, os.Stdin, os.Stdout, log)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("lingopad failed", zap.Error(err))
		os.Exit(1)
	}
}

func runChat(c *client.Client, model string, in io.Reader, out io.Writer, log *zap.Logger) error {
	if model == "" {
		if m, err := c.Model(context.Background()); err == nil {
			model = m
		} else {
			log.Debug("Could not fetch server model", zap.Error(err))
		}
	}
	fmt.Fprintf(out, "Chatting with %s. Ctrl-C stops a reply, /quit exits.\n", displayModel(model))

	session := client.NewChatSession(c, model)

	// Ctrl-C stops a streaming reply; at the prompt it exits.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			if session.Busy() {
				session.Stop()
				continue
			}
			fmt.Fprintln(out)
			os.Exit(0)
		}
	}()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}

		var mu sync.Mutex
		printed := 0
		entry, outcome, err := session.Send(context.Background(), line, func(e client.Entry) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprint(out, e.Content[printed:])
			printed = len(e.Content)
		})
		if errors.Is(err, client.ErrEmptyText) {
			continue
		}

		mu.Lock()
		if printed <= len(entry.Content) {
			fmt.Fprint(out, entry.Content[printed:])
		}
		mu.Unlock()
		if outcome == client.Cancelled {
			fmt.Fprint(out, " [stopped]")
		}
		fmt.Fprintln(out)

		if err != nil {
			log.Debug("Chat reply failed", zap.Error(err), zap.Stringer("outcome", outcome))
		}
	}
}

func displayModel(model string) string {
	if model == "" {
		return "the server default model"
	}
	return model
}

func runTranslate(c *client.Client, args []string, in io.Reader, out io.Writer, log *zap.Logger) error {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	from := fs.String("from", models.DefaultSourceLang, "source language code")
	to := fs.String("to", models.DefaultTargetLang, "target language code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := client.NewTranslateForm(c)
	form.SourceLang, form.TargetLang = *from, *to

	if fs.NArg() > 0 {
		form.Text = strings.Join(fs.Args(), " ")
		if err := form.Translate(context.Background()); err != nil {
			log.Debug("Translation failed", zap.Error(err))
			return errors.New(form.Err)
		}
		printResult(out, form.Result)
		return nil
	}

	fmt.Fprintln(out, "Type text to translate. Commands: /from <code>, /to <code>, /swap, /langs, /quit")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "[%s -> %s] ", form.SourceLang, form.TargetLang)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/langs":
			for _, l := range models.Languages {
				fmt.Fprintf(out, "  %-5s %s\n", l.Code, l.Name)
			}
			continue
		case "/from", "/to":
			code := strings.TrimSpace(arg)
			if code == "" {
				fmt.Fprintln(out, "missing language code")
				continue
			}
			if !models.IsKnownLanguage(code) {
				fmt.Fprintf(out, "note: %q is not a listed language, sending it as is\n", code)
			}
			if cmd == "/from" {
				form.SourceLang = code
			} else {
				form.TargetLang = code
			}
			continue
		case "/swap":
			form.Swap()
			fmt.Fprintf(out, "input: %s\n", form.Text)
			if form.Text != "" {
				if err := form.Translate(context.Background()); err != nil {
					fmt.Fprintf(out, "Error: %s\n", form.Err)
					continue
				}
				printResult(out, form.Result)
			}
			continue
		}

		form.Text = line
		if err := form.Translate(context.Background()); err != nil {
			log.Debug("Translation failed", zap.Error(err))
			fmt.Fprintf(out, "Error: %s\n", form.Err)
			continue
		}
		printResult(out, form.Result)
	}
}

func printResult(out io.Writer, r models.TranslationResult) {
	fmt.Fprintln(out, r.Result)
	for _, f := range []struct{ label, value string }{
		{"pronunciation", r.Pronunciation},
		{"usage", r.Usage},
		{"explanation", r.Explanation},
	} {
		if f.value != "" {
			fmt.Fprintf(out, "  %s: %s\n", f.label, f.value)
		}
	}
}
