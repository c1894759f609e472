package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	inkwell "github.com/kailas-cloud/inkwell/pkg/sdk"
)

var queryFlags struct {
	where     []string
	order     []string
	selects   []string
	limit     int
	one       bool
	join      bool
	count     bool
	published bool
}

var queryCmd = &cobra.Command{
	Use:   "query <collection>",
	Short: "Run a query and print the records as JSON",
	Example: `  inkwell query posts --published --order publishedAt:desc --limit 5 --join
  inkwell query posts --where slug=hello-world --one
  inkwell query posts --where "likeCount>=10" --count
  inkwell query posts --where "tags@>go"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringArrayVarP(&queryFlags.where, "where", "w", nil, "filter field<op>value, op one of = > >= < <= @> (repeatable)")
	f.StringArrayVarP(&queryFlags.order, "order", "o", nil, "sort key field[:asc|desc] (repeatable)")
	f.StringSliceVar(&queryFlags.selects, "select", nil, "fields to return")
	f.IntVarP(&queryFlags.limit, "limit", "n", 0, "maximum number of records")
	f.BoolVar(&queryFlags.one, "one", false, "expect exactly one record")
	f.BoolVar(&queryFlags.join, "join", false, "attach authors")
	f.BoolVar(&queryFlags.count, "count", false, "print the number of matches only")
	f.BoolVar(&queryFlags.published, "published", false, "published posts only")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	q := client.Query(args[0])
	for _, w := range queryFlags.where {
		field, op, value, err := parseWhere(w)
		if err != nil {
			return err
		}
		q.Where(field, op, value)
	}
	for _, o := range queryFlags.order {
		field, dir, err := parseOrder(o)
		if err != nil {
			return err
		}
		q.OrderBy(field, dir)
	}
	if len(queryFlags.selects) > 0 {
		q.Select(queryFlags.selects...)
	}
	if queryFlags.limit > 0 {
		q.Limit(queryFlags.limit)
	}
	if queryFlags.published {
		q.Published()
	}
	if queryFlags.join {
		q.Join()
	}

	out := cmd.OutOrStdout()
	switch {
	case queryFlags.count:
		n, err := q.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, n)
		return nil
	case queryFlags.one:
		rec, err := q.One().First(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, rec)
	}
	recs, err := q.Get(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, recs)
}

// whereOps is ordered so two-character operators match first.
var whereOps = []struct {
	token string
	op    inkwell.Operator
}{
	{">=", inkwell.OpGreaterThanOrEqual},
	{"<=", inkwell.OpLessThanOrEqual},
	{"@>", inkwell.OpArrayContains},
	{">", inkwell.OpGreaterThan},
	{"<", inkwell.OpLessThan},
	{"=", inkwell.OpEqual},
}

// parseWhere splits "field<op>value" at the first operator.
func parseWhere(s string) (string, inkwell.Operator, any, error) {
	best, at := -1, len(s)
	for i, w := range whereOps {
		if idx := strings.Index(s, w.token); idx >= 0 && idx < at {
			best, at = i, idx
		}
	}
	if best < 0 {
		return "", "", nil, fmt.Errorf("invalid filter %q: missing operator", s)
	}
	w := whereOps[best]
	field := strings.TrimSpace(s[:at])
	if field == "" {
		return "", "", nil, fmt.Errorf("invalid filter %q: missing field", s)
	}
	return field, w.op, parseValue(strings.TrimSpace(s[at+len(w.token):])), nil
}

// parseValue infers a scalar: quoted strings stay strings, then booleans,
// integers, floats and RFC3339 timestamps; anything else is a string.
func parseValue(s string) any {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return s
}

// parseOrder reads "field[:asc|desc]"; the direction defaults to desc.
func parseOrder(s string) (string, inkwell.Direction, error) {
	field, dir, _ := strings.Cut(s, ":")
	if field == "" {
		return "", "", fmt.Errorf("invalid order %q: missing field", s)
	}
	d, err := parseDirection(dir)
	if err != nil {
		return "", "", fmt.Errorf("invalid order %q: %w", s, err)
	}
	return field, d, nil
}

func parseDirection(s string) (inkwell.Direction, error) {
	switch strings.ToLower(s) {
	case "", "desc":
		return inkwell.Desc, nil
	case "asc":
		return inkwell.Asc, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}
