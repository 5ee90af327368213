package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"tick-trader/infrastructure/logger"
)

const (
	snapshotExt = ".json"
	resultExt   = ".result.json"
)

// Spool 监听目录：每个新出现的 *.json 快照生成同名 *.result.json。
// 生产方应先写临时文件再 rename 进目录，只处理 Create 事件。
type Spool struct {
	Dir string

	proc *Processor
	log  *logger.Logger
	// OnFile 在每个文件处理后被调用，参数为 ok 或 error。
	OnFile func(result string)

	done map[string]bool
}

func NewSpool(dir string, proc *Processor, log *logger.Logger) *Spool {
	if log == nil {
		log = logger.NewNop()
	}
	return &Spool{Dir: dir, proc: proc, log: log, done: make(map[string]bool)}
}

// ResultPath maps a snapshot file to its result file.
func ResultPath(path string) string {
	return strings.TrimSuffix(path, snapshotExt) + resultExt
}

func isSnapshot(path string) bool {
	return strings.HasSuffix(path, snapshotExt) && !strings.HasSuffix(path, resultExt)
}

// Start processes snapshots already present (in name order) and then every
// file created afterwards, until ctx ends.
func (s *Spool) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(s.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.Dir, err)
	}

	if err := s.drain(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) || !isSnapshot(ev.Name) {
				continue
			}
			s.handle(ev.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("spool watcher error", zap.Error(err))
		}
	}
}

func (s *Spool) drain() error {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return fmt.Errorf("read spool dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isSnapshot(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(s.Dir, name)
		if _, err := os.Stat(ResultPath(path)); err == nil {
			s.done[path] = true
			continue
		}
		s.handle(path)
	}
	return nil
}

func (s *Spool) handle(path string) {
	if s.done[path] {
		return
	}
	s.done[path] = true

	result := "ok"
	if err := s.ProcessFile(path); err != nil {
		result = "error"
		s.log.Warn("spool file failed", zap.String("file", path), zap.Error(err))
	}
	if s.OnFile != nil {
		s.OnFile(result)
	}
}

// ProcessFile runs one snapshot file and writes its result next to it. A file
// that cannot be decoded gets an {"error": ...} result.
func (s *Spool) ProcessFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	reply, procErr := s.proc.Process(raw)
	if procErr != nil {
		reply = encodeError(procErr)
	}
	if err := writeAtomic(ResultPath(path), reply); err != nil {
		return err
	}
	return procErr
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename result: %w", err)
	}
	return nil
}
