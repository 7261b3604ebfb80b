package zeroorm

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Query is a named command text loaded from a .sql file.
type Query struct {
	Doc        string `json:"doc"`
	Name       string `json:"name"`
	Query      string `json:"query"`
	Connection string `json:"connection"`
}

// FileLoader resolves command names to the command texts of .sql files. A
// file holds any number of blocks of the form:
//
//	-- sql-name: products-by-quantity
//	-- doc: products with the given quantity
//	SELECT * FROM Products WHERE Quantity = @Quantity
//	-- sql-end
type FileLoader struct {
	queries map[string]*Query
}

func LoadFromFile(file string) (*FileLoader, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return &FileLoader{queries: scanContent(string(content))}, nil
}

// LoadFromDir loads every .sql file in dir. Later files override earlier
// blocks of the same name.
func LoadFromDir(dir string) (*FileLoader, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	f := &FileLoader{queries: make(map[string]*Query)}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		for name, query := range scanContent(string(content)) {
			f.queries[name] = query
		}
	}
	return f, nil
}

func (f *FileLoader) GetQuery(name string) *Query {
	return f.queries[name]
}

func (f *FileLoader) Queries() map[string]*Query {
	return f.queries
}

// Text returns the command text registered under nameOrText, or nameOrText
// itself when no block has that name.
func (f *FileLoader) Text(nameOrText string) string {
	if q := f.GetQuery(nameOrText); q != nil {
		return q.Query
	}
	return nameOrText
}

func (f *FileLoader) ScalarContext(ctx context.Context, q Querier, nameOrText string, value any, extra ...Param) (any, error) {
	return q.ScalarContext(ctx, f.Text(nameOrText), value, extra...)
}

func (f *FileLoader) NonQueryContext(ctx context.Context, q Querier, nameOrText string, value any, extra ...Param) (int64, error) {
	return q.NonQueryContext(ctx, f.Text(nameOrText), value, extra...)
}

func (f *FileLoader) CursorContext(ctx context.Context, q Querier, nameOrText string, value any, extra ...Param) (*Rows, error) {
	return q.CursorContext(ctx, f.Text(nameOrText), value, extra...)
}

var (
	sqlTemplateRE        = regexp.MustCompile(`(?s)--\s*sql-name:\s*(.+?)\s*\n(.*?)\s*--\s*sql-end`)
	docTemplateRE        = regexp.MustCompile(`(?s)--\s*doc:\s*(.+?)\s*\n`)
	connectionTemplateRE = regexp.MustCompile(`(?s)--\s*connection:\s*(.+?)\s*\n`)
)

func scanContent(content string) map[string]*Query {
	queries := make(map[string]*Query)
	for _, match := range sqlTemplateRE.FindAllStringSubmatch(content, -1) {
		name := strings.TrimSpace(match[1])
		query := strings.TrimSpace(match[2]) + "\n"
		q := &Query{Name: name}
		if m := docTemplateRE.FindStringSubmatch(query); len(m) == 2 {
			query = docTemplateRE.ReplaceAllString(query, "")
			q.Doc = m[1]
		}
		if m := connectionTemplateRE.FindStringSubmatch(query); len(m) == 2 {
			query = connectionTemplateRE.ReplaceAllString(query, "")
			q.Connection = m[1]
		}
		q.Query = strings.TrimSpace(query)
		if name != "" && q.Query != "" {
			queries[name] = q
		}
	}
	return queries
}
