package tableio

import (
	"context"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/carbocation/pfx"
	"github.com/carbocation/relsurv/cohort"
	"google.golang.org/api/iterator"
)

type WrappedBigQuery struct {
	Context  context.Context
	Client   *bigquery.Client
	Project  string
	Database string
}

// TableRef is a fully qualified BigQuery table.
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

var (
	bqProject = regexp.MustCompile(`^[A-Za-z0-9\-.:]+$`)
	bqName    = regexp.MustCompile(`^[A-Za-z0-9_\-$]+$`)
)

// ParseTableRef splits project.dataset.table. Backticks around the reference
// are tolerated.
func ParseTableRef(s string) (TableRef, error) {
	s = strings.Trim(strings.TrimSpace(s), "`")

	// Project IDs may themselves contain a dot (domain-scoped projects), so
	// the dataset and table are taken from the right.
	last := strings.LastIndex(s, ".")
	if last < 0 {
		return TableRef{}, fmt.Errorf("%q is not a project.dataset.table reference", s)
	}
	prev := strings.LastIndex(s[:last], ".")
	if prev < 0 {
		return TableRef{}, fmt.Errorf("%q is not a project.dataset.table reference", s)
	}

	out := TableRef{
		Project: s[:prev],
		Dataset: s[prev+1 : last],
		Table:   s[last+1:],
	}

	if out.Project == "" || !bqProject.MatchString(out.Project) {
		return TableRef{}, fmt.Errorf("%q: project %q is not valid", s, out.Project)
	}
	if !bqName.MatchString(out.Dataset) {
		return TableRef{}, fmt.Errorf("%q: dataset %q is not valid", s, out.Dataset)
	}
	if !bqName.MatchString(out.Table) {
		return TableRef{}, fmt.Errorf("%q: table %q is not valid", s, out.Table)
	}

	return out, nil
}

func (t TableRef) String() string {
	return fmt.Sprintf("%s.%s.%s", t.Project, t.Dataset, t.Table)
}

// ReadBigQuery reads every row of a BigQuery table. The query is billed to the
// project option when given, otherwise to the table's own project.
func ReadBigQuery(ctx context.Context, path string, opts ReaderOptions) (*cohort.Table, error) {
	ref, err := ParseTableRef(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	BQ := &WrappedBigQuery{
		Context:  ctx,
		Project:  opts.Project,
		Database: ref.Project + "." + ref.Dataset,
	}
	if BQ.Project == "" {
		BQ.Project = ref.Project
	}

	BQ.Client, err = bigquery.NewClient(BQ.Context, BQ.Project)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer BQ.Client.Close()

	return ExecuteTableQuery(BQ, ref.Table)
}

// ExecuteTableQuery selects all columns of one table in BQ.Database.
func ExecuteTableQuery(BQ *WrappedBigQuery, table string) (*cohort.Table, error) {
	query := BQ.Client.Query(fmt.Sprintf("SELECT * FROM `%s.%s`", BQ.Database, table))

	itr, err := query.Read(BQ.Context)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var rows [][]string
	for {
		var values []bigquery.Value
		err := itr.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, pfx.Err(err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = BigQueryValueString(v)
		}
		rows = append(rows, row)
	}

	header := make([]string, 0, len(itr.Schema))
	for _, field := range itr.Schema {
		header = append(header, field.Name)
	}

	return cohort.NewTable(header, rows), nil
}

// BigQueryValueString renders a single cell as text. NULL is empty.
func BigQueryValueString(v bigquery.Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case civil.Date:
		return x.String()
	case civil.DateTime:
		return x.String()
	case civil.Time:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *big.Rat:
		if x.IsInt() {
			return x.Num().String()
		}
		return x.FloatString(9)
	case []byte:
		return string(x)
	}

	return fmt.Sprint(v)
}
