// Package cmd implements the cointax command line application.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/etnz/cointax"
	"github.com/etnz/cointax/binance"
	"github.com/etnz/cointax/config"
	"github.com/etnz/cointax/logger"
)

// Commands is the list of cointax subcommands.
var Commands = []subcommands.Command{
	&processCmd{},
	&checkCmd{},
	&summaryCmd{},
	&queryCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", "", "Path to the YAML configuration file")

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// session holds what every command needs: the configuration and the logger.
type session struct {
	cfg   *config.Config
	log   zerolog.Logger
	close func() error
}

func openSession() (*session, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	log, closer, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, close: closer}, nil
}

func (s *session) pipelineOptions() cointax.PipelineOptions {
	return cointax.PipelineOptions{
		Window:        s.cfg.WindowPeriod(),
		Period:        s.cfg.IncomePeriod(),
		WindowEnabled: s.cfg.Consolidation.WindowEnabled,
		PeriodEnabled: s.cfg.Consolidation.PeriodEnabled,
		Classifier: cointax.Classifier{Exchanges: map[string]string{
			cointax.TagStatement:    s.cfg.Exchange.Statement,
			cointax.TagDistribution: s.cfg.Exchange.Distribution,
			cointax.TagCommission:   s.cfg.Exchange.Commission,
		}},
		Logger: s.log,
	}
}

// process reads the exports and runs the pipeline over them.
func (s *session) process(files []string) (*cointax.Result, error) {
	entries, err := binance.ReadFiles(files, binance.Options{DefaultOffset: s.cfg.Input.DefaultOffset})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("files", len(files)).Int("entries", len(entries)).Msg("exports read")
	return cointax.NewPipeline(s.pipelineOptions()).Run(entries)
}

// run opens a session and processes files, reporting errors on stderr.
func run(files []string) (*cointax.Result, *session, subcommands.ExitStatus) {
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no export file given")
		return nil, nil, subcommands.ExitUsageError
	}
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}
	res, err := s.process(files)
	if err != nil {
		s.log.Error().Err(err).Msg("processing failed")
		s.close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}
	return res, s, subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it as is when raw.
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
