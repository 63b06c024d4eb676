// check-contracts: loads every contract file under the given directories in
// parallel, round-trips the all-zero constructor arguments through the codec
// and prints a summary table. Useful before pointing a build directory at the
// deployment backend.
//
// Run from the module root:
//
//	go run ./scripts/check-contracts ./build ./out
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/ctorargs"
)

// ── types ─────────────────────────────────────────────────────────────────────

type result struct {
	file   string
	name   string
	format string
	params string
	size   string
	err    string
}

// ── main ──────────────────────────────────────────────────────────────────────

func main() {
	dirs := os.Args[1:]
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	var files []string
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && strings.HasSuffix(path, ".json") {
				files = append(files, path)
			}
			return nil
		})
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)

	for _, path := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			r := check(path)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}(path)
	}
	wg.Wait()

	printTable(results)

	for _, r := range results {
		if r.err != "" {
			os.Exit(1)
		}
	}
}

func check(path string) result {
	r := result{file: path, name: "—", format: "—", params: "—", size: "—"}

	c, err := contract.Load(path)
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	r.name = c.Name
	r.format = string(c.Format)
	r.size = fmt.Sprintf("%d", len(c.Bytecode))

	params, err := ctorargs.ExtractConstructor(c.ABIString())
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	r.params = "(" + strings.Join(types, ",") + ")"

	blob, err := ctorargs.EncodeDefaults(params)
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	if st := ctorargs.NewDraftFromParams(params, blob).Status(); !st.Valid {
		r.err = st.Message()
	}
	return r
}

// ── output ────────────────────────────────────────────────────────────────────

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool { return results[i].file < results[j].file })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "FILE\tNAME\tFORMAT\tCONSTRUCTOR\tBYTES\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 20)+"\t"+
		strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 18)+"\t"+
		strings.Repeat("-", 6)+"\t"+
		strings.Repeat("-", 12))

	for _, r := range results {
		note := r.err
		if note == "" {
			note = "ok"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.file, r.name, r.format, r.params, r.size, note)
	}
	w.Flush()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 40 {
		return s[:40] + "…"
	}
	return s
}
