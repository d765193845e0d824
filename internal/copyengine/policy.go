package copyengine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// CopyPolicy is the collision-resolution state threaded across a whole paste
// invocation (spec §4.5 paste table); it starts Unknown and takes whichever
// value the latest prompt answer (or the non-TTY ReplaceAll default)
// selects; only the "All" variants stop further prompts.
type CopyPolicy int

const (
	Unknown CopyPolicy = iota
	ReplaceOnce
	ReplaceAll
	SkipOnce
	SkipAll
)

// parsePromptResponse maps a raw prompt answer to the policy it selects, or
// reports ok=false for anything unrecognized (the caller should re-prompt).
func parsePromptResponse(answer string) (CopyPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return ReplaceOnce, true
	case "a", "all":
		return ReplaceAll, true
	case "n", "no":
		return SkipOnce, true
	case "s", "skip":
		return SkipAll, true
	default:
		return Unknown, false
	}
}

// Prompter asks the collision question and reads one line of response. It is
// satisfied by internal/termio's stdin/stderr wrapper, and by a canned
// responder in tests.
type Prompter interface {
	// IsTTY reports whether the prompt can actually be shown interactively.
	IsTTY() bool
	Ask(prompt string) (string, error)
}

// Paste iterates the current entry's directory (spec §4.5 "Paste" bullet),
// copying each child into cwd under its own name, honoring and updating
// policy across the whole call. It returns the (possibly updated) policy so
// callers resolving multiple paste invocations in one process can thread it
// forward, though a fresh invocation always starts at Unknown.
func (e *Engine) Paste(entryDir, cwd string, policy CopyPolicy, prompt Prompter) CopyPolicy {
	entries, err := os.ReadDir(entryDir)
	if err != nil {
		if !os.IsNotExist(err) {
			e.fail(entryDir, err)
		}
		return policy
	}

	for _, entry := range entries {
		src := entry.Name()
		srcPath := joinPath(entryDir, src)
		dstPath := joinPath(cwd, src)

		decision, newPolicy := resolveCollision(srcPath, dstPath, policy, prompt)
		policy = newPolicy
		if decision == SkipOnce || decision == SkipAll {
			continue
		}

		info, err := os.Lstat(srcPath)
		if err != nil {
			e.fail(srcPath, err)
			continue
		}
		if info.IsDir() {
			if err := e.copyDir(srcPath, dstPath); err != nil {
				e.fail(srcPath, err)
				continue
			}
			e.Successes.Directories++
		} else {
			if err := e.copyFile(srcPath, dstPath, info); err != nil {
				e.fail(srcPath, err)
				continue
			}
			e.Successes.Files++
		}
	}
	return policy
}

// resolveCollision implements the paste collision table. It returns the
// effective per-item decision (always one of the "Once"/"All" constants, or
// ReplaceOnce when there's no collision at all) and the policy to carry
// forward.
func resolveCollision(src, dst string, policy CopyPolicy, prompt Prompter) (CopyPolicy, CopyPolicy) {
	if _, err := os.Lstat(dst); err != nil {
		// No collision: proceed, policy unchanged.
		return ReplaceOnce, policy
	}

	if same, err := sameFile(src, dst); err == nil && same {
		// dst is src under another name (pasting back into the directory a
		// hardlinked copy/cut came from): spec §4.5 treats this as already
		// satisfied, not a collision — skip without prompting or touching
		// policy, so it never consumes a ReplaceAll/SkipAll answer.
		return SkipOnce, policy
	}

	switch policy {
	case SkipAll:
		return SkipAll, policy
	case ReplaceAll:
		return ReplaceAll, policy
	}

	if prompt == nil || !prompt.IsTTY() {
		return ReplaceAll, ReplaceAll
	}

	for {
		answer, err := prompt.Ask(fmt.Sprintf("%s exists, overwrite? [y]es/[a]ll/[n]o/[s]kip-all: ", dst))
		if err != nil {
			return ReplaceAll, ReplaceAll
		}
		decision, ok := parsePromptResponse(answer)
		if !ok {
			continue
		}
		return decision, decision
	}
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + string(os.PathSeparator) + name
}

// RemoveOriginals implements the post-paste cleanup: every path listed in
// metadata/originals is recursively removed; the file itself is deleted only
// if every removal succeeded.
func (e *Engine) RemoveOriginals(originalsPath string) error {
	f, err := os.Open(originalsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if l := strings.TrimSpace(scanner.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	scanErr := scanner.Err()
	f.Close()
	if scanErr != nil && scanErr != io.EOF {
		return scanErr
	}

	allOK := true
	for _, path := range lines {
		if err := os.RemoveAll(path); err != nil {
			e.fail(path, err)
			allOK = false
		}
	}
	if allOK {
		if err := os.Remove(originalsPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
