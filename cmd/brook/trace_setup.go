package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"brook/internal/project"
	"brook/internal/trace"
)

// setupTracing reads the trace flags, falling back to [trace] of brook.toml,
// and stores the tracer in the command context.
func setupTracing(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	output, err := pf.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := pf.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	if levelStr == "" && output == "" {
		if m, ok, _ := project.Load("."); ok {
			levelStr = m.Config.Trace.Level
			output = m.Config.Trace.Output
			if !pf.Changed("trace-format") && m.Config.Trace.Format != "" {
				formatStr = m.Config.Trace.Format
			}
		}
	}
	// --trace без уровня означает phase
	if levelStr == "" && output != "" {
		levelStr = "phase"
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	tr, err := trace.New(trace.Config{Level: level, Format: format, OutputPath: output})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tr
	cmd.SetContext(trace.WithTracer(cmd.Context(), tr))
	return nil
}

// activeTracer is closed by main even when the command fails.
var activeTracer trace.Tracer = trace.Nop

func closeTracing() error {
	tr := activeTracer
	activeTracer = trace.Nop
	return tr.Close()
}
