package base

import (
	"testing"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

func TestDialect_BuildInsert(t *testing.T) {
	schema := table.New("esg", "name", "total_score").Schema

	tests := []struct {
		name    string
		dialect Dialect
		want    string
	}{
		{
			name:    "question",
			dialect: Dialect{Quote: QuoteBacktick, Placeholder: QuestionPlaceholder},
			want:    "INSERT INTO `esg` (`name`, `total_score`) VALUES (?, ?)",
		},
		{
			name:    "dollar",
			dialect: Dialect{Quote: QuoteDouble, Placeholder: DollarPlaceholder},
			want:    `INSERT INTO "esg" ("name", "total_score") VALUES ($1, $2)`,
		},
		{
			name:    "named",
			dialect: Dialect{Quote: QuoteBracket, Placeholder: NamedPlaceholder},
			want:    "INSERT INTO [esg] ([name], [total_score]) VALUES (@p1, @p2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.BuildInsert("esg", schema); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestQuote_Escapes(t *testing.T) {
	if got := QuoteDouble(`a"b`); got != `"a""b"` {
		t.Errorf("QuoteDouble = %s", got)
	}
	if got := QuoteBracket("a]b"); got != "[a]]b]" {
		t.Errorf("QuoteBracket = %s", got)
	}
}

func TestConvertValue(t *testing.T) {
	v, err := ConvertValue(table.StringCell("42"), table.TypeInteger)
	if err != nil || v != int64(42) {
		t.Errorf("integer: got %v, %v", v, err)
	}
	v, err = ConvertValue(table.NullCell(), table.TypeInteger)
	if err != nil || v != nil {
		t.Errorf("null: got %v, %v", v, err)
	}
	if _, err := ConvertValue(table.StringCell("x"), table.TypeInteger); err == nil {
		t.Error("expected error for non-integer value")
	}
	v, _ = ConvertValue(table.StringCell("03/05/2021"), table.TypeText)
	if v != "03/05/2021" {
		t.Errorf("text: got %v", v)
	}
}
