package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// Keywords that must never appear in generated SQL. The model is instructed
// to stay read-only, but that instruction is not a security boundary.
var disallowedKeywords = []string{
	"INSERT ", "UPDATE ", "DELETE ", "DROP ", "ALTER ", "TRUNCATE ",
	"CREATE ", "GRANT ", "REVOKE ", "COPY ", "VACUUM ",
}

// validateReadOnly enforces that the statement is a single read. Execution
// additionally runs inside a read-only transaction, so this is a first line
// of defense, not the only one.
func validateReadOnly(sqlText string) error {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sqlText), ";"))
	if s == "" {
		return fmt.Errorf("empty SQL statement")
	}

	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("only SELECT statements are allowed")
	}
	if strings.Contains(s, ";") {
		return fmt.Errorf("multiple statements are not allowed")
	}
	for _, kw := range disallowedKeywords {
		if strings.Contains(upper, kw) {
			return fmt.Errorf("disallowed SQL keyword %q in generated statement", strings.TrimSpace(kw))
		}
	}
	return nil
}

// execute runs the generated SQL against the store. Any failure, including a
// statement that does not pass the read-only check, is an execution-stage
// failure whose detail is logged and never surfaced to the caller.
func (p *Pipeline) execute(ctx context.Context, sqlText string) (*ResultSet, error) {
	if err := validateReadOnly(sqlText); err != nil {
		p.logger.WithField("sql", sqlText).WithError(err).Warn("rejected generated SQL")
		return nil, stageError(StageExecution, err)
	}

	rs, err := p.store.QueryRows(ctx, sqlText)
	if err != nil {
		p.logger.WithField("sql", sqlText).WithError(err).Error("query execution failed")
		return nil, stageError(StageExecution, err)
	}
	return rs, nil
}
