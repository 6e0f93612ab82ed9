package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"riddlebox/pkg/game/progress"
	"riddlebox/pkg/game/riddle"
)

const dumpFilename = "state-dump.txt"

// Dump writes a human readable report of the stored state to w, followed by
// the raw document.
func Dump(ctx context.Context, w io.Writer, repo progress.Repository) error {
	g := repo.State(ctx)
	bw := &errWriter{w: w}

	bw.printf("=== STATE DUMP ===\n\n")

	bw.printf("Riddles:\n")
	for _, m := range riddle.Registry() {
		stage := g.Stage(m.ID)
		bw.printf("  id: %q stage: %d/%d label: %q status: %s\n",
			m.ID, stage, m.FinalStage(), m.StageLabel(stage), statusOf(m, stage))
	}
	bw.printf("\n")

	// Progress the registry no longer knows about.
	var orphans []string
	for id := range g.RiddleProgress {
		if _, ok := riddle.Lookup(id); !ok {
			orphans = append(orphans, id)
		}
	}
	slices.Sort(orphans)
	bw.printf("Unknown riddles:\n")
	if len(orphans) == 0 {
		bw.printf("  (none)\n")
	}
	for _, id := range orphans {
		bw.printf("  id: %q stage: %d\n", id, g.RiddleProgress[id])
	}
	bw.printf("\n")

	bw.printf("Inventory:\n")
	if len(g.Inventory) == 0 {
		bw.printf("  (none)\n")
	}
	for _, item := range g.Inventory {
		bw.printf("  item: %q\n", item)
	}
	bw.printf("\n")

	bw.printf("Admin settings:\n")
	bw.printf("  bypass_pin_on_localhost: %v dev_tools_enabled: %v\n\n",
		g.AdminSettings.BypassPinOnLocalhost, g.AdminSettings.DevToolsEnabled)

	raw, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	bw.printf("Raw state:\n%s\n\n", raw)
	bw.printf("=== END STATE DUMP ===\n")
	return bw.err
}

// DumpToFile writes the report to state-dump.txt in dir and returns its
// absolute path.
func DumpToFile(ctx context.Context, dir string, repo progress.Repository) (string, error) {
	absPath, err := filepath.Abs(filepath.Join(dir, dumpFilename))
	if err != nil {
		return "", err
	}
	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Dump(ctx, f, repo); err != nil {
		return absPath, err
	}
	if err := f.Sync(); err != nil {
		return absPath, err
	}
	return absPath, nil
}

// errWriter keeps the first write error so the report reads straight through.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}
