package paging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tobsdb/pagedb/internal/schema"
	"github.com/tobsdb/pagedb/pkg"
)

const dir_perms = 0755

// Row is one stored row keyed by "table.column".
type Row = pkg.Map[string, string]

func SequenceFileName(table string) string { return table + "_pk_sequence" }
func LockFileName(table string) string     { return table + "_lock" }

// Pager owns the on-disk layout of every table under {root}:
//
//	root/<table>/<n>.csv
//	root/<table>/<table>_pk_sequence
//	root/<table>/<table>_lock
//
// Pager does no locking of its own. Callers wrap page discovery, appends and
// rewrites of one table in that table's critical section.
type Pager struct {
	root   string
	schema *schema.Schema
}

func NewPager(root string, s *schema.Schema) *Pager {
	return &Pager{root: root, schema: s}
}

func (pm *Pager) Root() string { return pm.root }

func (pm *Pager) TableDir(table string) string { return filepath.Join(pm.root, table) }

func (pm *Pager) SequencePath(table string) string {
	return filepath.Join(pm.TableDir(table), SequenceFileName(table))
}

func (pm *Pager) LockPath(table string) string {
	return filepath.Join(pm.TableDir(table), LockFileName(table))
}

func (pm *Pager) table(name string) (*schema.Table, error) {
	t, ok := pm.schema.Table(name)
	if !ok {
		return nil, fmt.Errorf("no table %s in schema %s", name, pm.schema.Name)
	}
	return t, nil
}

// EnsureInitialized creates every table directory, page 1, the pk sequence
// (0) and the lock flag (0). Existing files are never touched.
func (pm *Pager) EnsureInitialized() error {
	if err := os.MkdirAll(pm.root, dir_perms); err != nil {
		return err
	}

	for _, t := range pm.schema.Tables() {
		if err := pm.ensureTable(t); err != nil {
			return fmt.Errorf("initializing table %s: %w", t.Name, err)
		}
	}
	pkg.DebugLog("initialized database at", pm.root)
	return nil
}

func (pm *Pager) ensureTable(t *schema.Table) error {
	base := pm.TableDir(t.Name)
	if err := os.MkdirAll(base, dir_perms); err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(base, PageFileName(1))); errors.Is(err, fs.ErrNotExist) {
		if err := NewPage(t.Name, 1, t.Header()).WriteToFile(base); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := createIfAbsent(pm.SequencePath(t.Name), "0"); err != nil {
		return err
	}
	return createIfAbsent(pm.LockPath(t.Name), "0")
}

func createIfAbsent(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, page_file_perms)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FindWritablePage returns the first page with fewer than tuples_limit rows.
// The first missing page number is created with the table header, so the
// scan always terminates.
func (pm *Pager) FindWritablePage(table string) (int, error) {
	t, err := pm.table(table)
	if err != nil {
		return 0, err
	}
	base := pm.TableDir(table)

	for index := 1; ; index++ {
		p, err := LoadPage(base, table, index)
		if errors.Is(err, ERR_PAGE_NOT_FOUND) {
			if err := NewPage(table, index, t.Header()).WriteToFile(base); err != nil {
				return 0, err
			}
			pkg.DebugLog("created page", index, "for table", table)
			return index, nil
		}
		if err != nil {
			return 0, err
		}

		if p.Header == nil {
			// header lost; restore it so the page stays readable
			p.Header = t.Header()
			if err := p.WriteToFile(base); err != nil {
				return 0, err
			}
		}

		if !p.IsFull(pm.schema.TuplesLimit) {
			return index, nil
		}
	}
}

func (pm *Pager) AppendRow(table string, index int, row []string) error {
	t, err := pm.table(table)
	if err != nil {
		return err
	}
	if err := validateRow(t.Header(), row); err != nil {
		return err
	}

	location := filepath.Join(pm.TableDir(table), PageFileName(index))
	f, err := os.OpenFile(location, os.O_WRONLY|os.O_APPEND, page_file_perms)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ERR_PAGE_NOT_FOUND, location)
		}
		return err
	}

	if _, err := f.WriteString(encodeLine(row)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (pm *Pager) ReadPage(table string, index int) (*Page, error) {
	if _, err := pm.table(table); err != nil {
		return nil, err
	}
	return LoadPage(pm.TableDir(table), table, index)
}

// ReadAllRows reads pages 1..N, stopping at the first missing page number.
func (pm *Pager) ReadAllRows(table string) ([]Row, error) {
	if _, err := pm.table(table); err != nil {
		return nil, err
	}
	base := pm.TableDir(table)

	rows := []Row{}
	for index := 1; ; index++ {
		p, err := LoadPage(base, table, index)
		if errors.Is(err, ERR_PAGE_NOT_FOUND) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		for i := range p.Rows {
			rows = append(rows, p.Fields(i))
		}
	}
}

// PageCount counts the contiguous pages starting at 1.
func (pm *Pager) PageCount(table string) (int, error) {
	if _, err := pm.table(table); err != nil {
		return 0, err
	}
	base := pm.TableDir(table)
	n := 0
	for {
		_, err := os.Stat(filepath.Join(base, PageFileName(n+1)))
		if errors.Is(err, fs.ErrNotExist) {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		n++
	}
}

// RewritePage replaces the whole content of page {index} with {header}
// followed by {rows}, in the given order. More than tuples_limit rows is
// ERR_PAGE_FULL and leaves the page untouched.
func (pm *Pager) RewritePage(table string, index int, header []string, rows [][]string) error {
	if _, err := pm.table(table); err != nil {
		return err
	}
	p := NewPage(table, index, header)
	for _, row := range rows {
		if err := p.Push(row, pm.schema.TuplesLimit); err != nil {
			return fmt.Errorf("rewriting page %d of %s: %w", index, table, err)
		}
	}
	return p.WriteToFile(pm.TableDir(table))
}

// WipeTablePages deletes every page file of the table. The pk sequence and
// lock flag are kept so primary keys never repeat.
func (pm *Pager) WipeTablePages(table string) error {
	if _, err := pm.table(table); err != nil {
		return err
	}
	base := pm.TableDir(table)

	entries, err := os.ReadDir(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(isPageFile(name) || pkg.IsTempFileOf(name, PAGE_EXT)) {
			continue
		}
		if err := os.Remove(filepath.Join(base, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		removed++
	}
	pkg.DebugLog("wiped", removed, "page files from table", table)
	return nil
}
