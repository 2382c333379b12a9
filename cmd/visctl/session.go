// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"cogentcore.org/instvis/base/dotpath"
	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/base/logx"
	"cogentcore.org/instvis/engine"
	"cogentcore.org/instvis/persist"
	"cogentcore.org/instvis/visibility"
	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
)

// session is an engine loaded from one document text file.
type session struct {
	file   string
	engine *engine.Engine
	out    io.Writer
}

func openSession(file string, cfg engine.Config, out io.Writer) (*session, error) {
	s := &session{file: file, engine: engine.New(cfg, nil), out: out}
	return s, s.load()
}

// load replaces the overrides with those of the file.
// A missing file has no overrides.
func (s *session) load() error {
	s.engine.Clear()
	b, err := os.ReadFile(s.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	sets, dropped := persist.DecodeDocument(string(b))
	if dropped > 0 {
		slog.Warn("visctl: dropped malformed lines and entries", "file", s.file, "dropped", dropped)
	}
	st := s.engine.Store()
	for id, ov := range sets {
		st.Replace(id, ov)
	}
	return nil
}

// save writes the overrides to the file.
func (s *session) save() error {
	st := s.engine.Store()
	sets := map[uuid.UUID]visibility.Overrides{}
	for _, id := range st.ManagedInstances() {
		sets[id] = st.Overrides(id)
	}
	return os.WriteFile(s.file, []byte(persist.EncodeDocument(sets)), 0666)
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid instance id %q: %w", s, err)
	}
	return id, nil
}

func (s *session) show() {
	ids := s.engine.ManagedInstances()
	if len(ids) == 0 {
		fmt.Fprintln(s.out, "no overrides")
		return
	}
	st := s.engine.Store()
	for _, id := range ids {
		fmt.Fprintf(s.out, "%s (%d)\n", logx.CmdColor(id.String()), s.engine.HiddenCount(id))
		ov := st.Overrides(id)
		for _, p := range ov.Paths() {
			fmt.Fprintf(s.out, "    %s\t%s\n", p, ov[p])
		}
	}
}

func (s *session) set(instance, path, state string) error {
	id, err := parseID(instance)
	if err != nil {
		return err
	}
	st, err := visibility.ParseState(state)
	if err != nil {
		return err
	}
	if !dotpath.Valid(path) {
		return fmt.Errorf("invalid path %q", path)
	}
	s.engine.SetState(id, path, st)
	return nil
}

// reset removes the overrides of the instance, or only those
// at the given path and below it.
func (s *session) reset(instance, path string) error {
	id, err := parseID(instance)
	if err != nil {
		return err
	}
	if path == "" {
		s.engine.ResetInstance(id)
		return nil
	}
	if !dotpath.Valid(path) {
		return fmt.Errorf("invalid path %q", path)
	}
	s.engine.ResetPath(id, path)
	return nil
}

func (s *session) clear() {
	s.engine.Clear()
}

// encode writes the attachment chunk of the instance to a file.
func (s *session) encode(instance, chunk string) error {
	id, err := parseID(instance)
	if err != nil {
		return err
	}
	return os.WriteFile(chunk, persist.Encode(s.engine.Store().Overrides(id)), 0666)
}

// decode replaces the overrides of the instance with those of a chunk file.
// A chunk that yields no overrides because of an error leaves them as is.
func (s *session) decode(instance, chunk string) error {
	id, err := parseID(instance)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(chunk)
	if err != nil {
		return err
	}
	ov, err := persist.Decode(b)
	if errors.Is(err, persist.ErrUnsupportedVersion) || (err != nil && len(ov) == 0) {
		return err
	}
	errors.Log(err)
	s.engine.Store().Replace(id, ov)
	return nil
}

const shellHelp = `commands:
    show
    set <instance> <path> <state>
    reset <instance> [<path>]
    clear
    reload
    save
    quit`

// exec runs one shell command line. It returns false to quit.
func (s *session) exec(line string) (bool, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return true, err
	}
	if len(args) == 0 {
		return true, nil
	}
	cmd, args := args[0], args[1:]
	nargs := func(min, max int) error {
		if len(args) < min || len(args) > max {
			return fmt.Errorf("%s: wrong number of arguments\n%s", cmd, shellHelp)
		}
		return nil
	}
	switch cmd {
	case "show":
		s.show()
	case "set":
		if err := nargs(3, 3); err != nil {
			return true, err
		}
		return true, s.set(args[0], args[1], args[2])
	case "reset":
		if err := nargs(1, 2); err != nil {
			return true, err
		}
		path := ""
		if len(args) == 2 {
			path = args[1]
		}
		return true, s.reset(args[0], path)
	case "clear":
		s.clear()
	case "reload":
		return true, s.load()
	case "save":
		return true, s.save()
	case "quit", "exit":
		return false, nil
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	default:
		return true, fmt.Errorf("unknown command %q\n%s", cmd, shellHelp)
	}
	return true, nil
}

// shell runs the command lines read from r, saving the file at the end.
// Failed commands are reported and do not stop the shell.
func (s *session) shell(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		more, err := s.exec(line)
		if err != nil {
			fmt.Fprintln(s.out, logx.ErrorColor(err.Error()))
		}
		if !more {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return s.save()
}
