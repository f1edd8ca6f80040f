package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"brook/internal/diag"
	"brook/internal/diagfmt"
	"brook/internal/driver"
	"brook/internal/ir"
	"brook/internal/lexer"
	"brook/internal/source"
	"brook/internal/token"
)

const replFileName = "<repl>"

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively compile brook statements",
	Long: `Repl accumulates statements into one program and recompiles it after every entry.
Entries that fail to compile are discarded. Type :help for commands.
When stdin is not a terminal the whole input is compiled once and its IR is printed.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, _ []string) error {
	s := newSession(cmd.OutOrStdout(), cmd.ErrOrStderr(), prettyOpts(cmd))
	if !isInteractive() {
		return runBatch(cmd.Context(), s, cmd.InOrStdin())
	}
	runInteractive(cmd.Context(), s)
	return nil
}

// session holds the program accepted so far.
type session struct {
	out, errw io.Writer
	opts      diagfmt.PrettyOpts
	program   strings.Builder
	last      *driver.Unit
	lastEntry string
}

func newSession(out, errw io.Writer, opts diagfmt.PrettyOpts) *session {
	return &session{out: out, errw: errw, opts: opts}
}

// submit compiles the accepted program extended by entry and keeps the entry on success.
func (s *session) submit(ctx context.Context, entry string) error {
	candidate := s.program.String() + entry
	if !strings.HasSuffix(candidate, "\n") {
		candidate += "\n"
	}
	unit, err := driver.CompileSource(ctx, replFileName, []byte(candidate), driver.Options{})
	if err != nil {
		return err
	}
	s.program.Reset()
	s.program.WriteString(candidate)
	s.last = unit
	s.lastEntry = entry
	return nil
}

func (s *session) reset() {
	s.program.Reset()
	s.last = nil
	s.lastEntry = ""
}

func (s *session) report(err error) {
	if de, ok := diag.AsError(err); ok {
		diagfmt.Error(s.errw, de, s.opts)
		return
	}
	fmt.Fprintf(s.errw, "error: %v\n", err)
}

// command runs a ":name" line. quit is true for :quit.
func (s *session) command(line string) (quit bool) {
	name, _, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch name {
	case ":q", ":quit", ":exit":
		return true
	case ":h", ":help":
		fmt.Fprint(s.out, replHelp)
	case ":reset":
		s.reset()
		fmt.Fprintln(s.out, "program cleared")
	case ":src", ":source":
		fmt.Fprint(s.out, s.program.String())
	case ":dump":
		if s.last == nil {
			fmt.Fprintln(s.out, "nothing compiled yet")
			return false
		}
		if err := irDump(s.out, s.last); err != nil {
			s.report(err)
		}
	case ":ast":
		if s.last == nil {
			fmt.Fprintln(s.out, "nothing compiled yet")
			return false
		}
		if err := diagfmt.FormatASTPretty(s.out, s.last.Builder, s.last.AST, nil); err != nil {
			s.report(err)
		}
	case ":tokens":
		fs := source.NewFileSet()
		res := driver.TokenizeFile(fs, fs.Get(fs.AddVirtual(replFileName, []byte(s.lastEntry))), 0)
		if err := diagfmt.FormatTokensPretty(s.out, res.Tokens, fs); err != nil {
			s.report(err)
		}
	default:
		fmt.Fprintf(s.errw, "unknown command %s (try :help)\n", name)
	}
	return false
}

const replHelp = `commands:
  :dump     print the IR of the accepted program
  :ast      print the syntax tree of the accepted program
  :tokens   print the tokens of the last accepted entry
  :source   print the accepted program
  :reset    forget the accepted program
  :quit     leave the repl
`

// incomplete reports whether src has unclosed braces, parentheses or block comments.
func incomplete(src string) bool {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual(replFileName, []byte(src))))
	depth := 0
	for {
		from := lx.Save()
		tok, err := lx.Next()
		if err != nil {
			var de *diag.Error
			if errors.As(err, &de) && de.Code == diag.LexUnterminatedBlockComment {
				return true
			}
			if lx.Save().Off == from.Off {
				break
			}
			continue
		}
		switch tok.Kind {
		case token.EOF:
			return depth > 0
		case token.LBrace, token.LParen:
			depth++
		case token.RBrace, token.RParen:
			depth--
		}
	}
	return depth > 0
}

func runInteractive(ctx context.Context, s *session) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder
	for {
		prompt := "brook> "
		if buffer.Len() > 0 {
			prompt = "  ...> "
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(s.out)
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(s.out)
				return
			default:
				fmt.Fprintf(s.errw, "read error: %v\n", err)
				return
			}
		}

		if buffer.Len() == 0 && strings.HasPrefix(strings.TrimSpace(input), ":") {
			state.AppendHistory(strings.TrimSpace(input))
			if s.command(input) {
				return
			}
			continue
		}

		buffer.WriteString(input)
		buffer.WriteString("\n")
		src := buffer.String()
		if incomplete(src) {
			continue
		}
		buffer.Reset()
		if strings.TrimSpace(src) == "" {
			continue
		}
		state.AppendHistory(strings.TrimSpace(src))
		if err := s.submit(ctx, src); err != nil {
			s.report(err)
			continue
		}
		fmt.Fprintf(s.out, "ok: %d block(s), %d extern(s)\n", len(s.last.Object.Blocks), len(s.last.Object.Externs))
	}
}

// runBatch compiles all of r as one program and prints its IR.
func runBatch(ctx context.Context, s *session, r io.Reader) error {
	var sb strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		sb.WriteString(sc.Text())
		sb.WriteString("\n")
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if err := s.submit(ctx, sb.String()); err != nil {
		s.report(err)
		return exitError{code: 1}
	}
	return irDump(s.out, s.last)
}

func irDump(w io.Writer, u *driver.Unit) error {
	return ir.Dump(w, u.Object)
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".brook_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
