package paging

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tobsdb/pagedb/internal/schema"
	"github.com/tobsdb/pagedb/pkg"
)

const (
	PAGE_EXT        = ".csv"
	page_file_perms = 0644
)

var (
	ERR_PAGE_NOT_FOUND = errors.New("page not found")
	ERR_PAGE_FULL      = errors.New("page full")
	ERR_CORRUPT_PAGE   = errors.New("corrupt page")
	ERR_INVALID_VALUE  = errors.New("value contains a reserved character")
)

func PageFileName(index int) string { return fmt.Sprintf("%d%s", index, PAGE_EXT) }

// isPageFile matches "<n>.csv" with n >= 1.
func isPageFile(name string) bool {
	num, ok := strings.CutSuffix(name, PAGE_EXT)
	if !ok || num == "" || num[0] == '0' {
		return false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Page is the in-memory form of one "<n>.csv" file: a header line followed
// by one comma separated line per row.
type Page struct {
	Table  string
	Index  int
	Header []string
	Rows   [][]string
}

func NewPage(table string, index int, header []string) *Page {
	return &Page{Table: table, Index: index, Header: append([]string{}, header...)}
}

// LoadPage reads page {index} from the table directory {base}.
// A missing file is reported as ERR_PAGE_NOT_FOUND.
func LoadPage(base, table string, index int) (*Page, error) {
	location := filepath.Join(base, PageFileName(index))
	data, err := os.ReadFile(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ERR_PAGE_NOT_FOUND, location)
		}
		return nil, err
	}

	p := &Page{Table: table, Index: index}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), pkg.MaxFrameSize)
	line_idx := 0
	for scanner.Scan() {
		line_idx++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}

		fields := strings.Split(line, schema.FieldSeparator)
		if p.Header == nil {
			p.Header = fields
			continue
		}
		if len(fields) != len(p.Header) {
			return nil, fmt.Errorf("%w: %s line %d has %d fields, header has %d",
				ERR_CORRUPT_PAGE, location, line_idx, len(fields), len(p.Header))
		}
		p.Rows = append(p.Rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	return p, nil
}

func (p *Page) Len() int { return len(p.Rows) }

func (p *Page) IsFull(limit int) bool { return len(p.Rows) >= limit }

func (p *Page) Push(row []string, limit int) error {
	if p.IsFull(limit) {
		return ERR_PAGE_FULL
	}
	if err := validateRow(p.Header, row); err != nil {
		return err
	}
	p.Rows = append(p.Rows, append([]string{}, row...))
	return nil
}

// Fields zips row {i} with the header into a "table.column" keyed map.
func (p *Page) Fields(i int) pkg.Map[string, string] {
	row := p.Rows[i]
	m := make(pkg.Map[string, string], len(p.Header))
	for j, column := range p.Header {
		m.Set(pkg.Qualify(p.Table, column), row[j])
	}
	return m
}

func (p *Page) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(encodeLine(p.Header))
	for _, row := range p.Rows {
		buf.WriteString(encodeLine(row))
	}
	return buf.Bytes()
}

// WriteToFile replaces the page file in {base}. The content goes to a temp
// file first and is renamed over the page, so readers never see a torn page.
func (p *Page) WriteToFile(base string) error {
	return pkg.WriteFileAtomic(filepath.Join(base, PageFileName(p.Index)), p.Bytes(), page_file_perms)
}

func encodeLine(fields []string) string {
	return strings.Join(fields, schema.FieldSeparator) + "\n"
}

func validateRow(header, row []string) error {
	if len(row) != len(header) {
		return fmt.Errorf("%w: row has %d fields, header has %d", ERR_CORRUPT_PAGE, len(row), len(header))
	}
	for _, v := range row {
		if strings.ContainsAny(v, ",\n\r") {
			return fmt.Errorf("%w: %q", ERR_INVALID_VALUE, v)
		}
	}
	return nil
}
