package etl

import (
	"os"
	"path/filepath"
	"testing"
)

// esgCSV - небольшой набор в формате исходного датасета
const esgCSV = `ticker,name,currency,exchange,industry,logo,weburl,environment_grade,environment_level,social_grade,social_level,governance_grade,governance_level,environment_score,social_score,governance_score,total_score,last_processing_date,total_grade,total_level,cik
dis,Walt Disney Co,USD,NEW YORK STOCK EXCHANGE INC.,Media,https://static.finnhub.io/logo/dis.png,https://thewaltdisneycompany.com/,A,High,BB,Medium,BB,Medium,510,316,321,1147,19-04-2022,BBB,High,1744489
gm,General Motors Co,USD,NEW YORK STOCK EXCHANGE INC.,Automobiles,N/A,n/a,A,High,BB,Medium,BB,Medium,510,303,255,1068,05-03-2021,BBB,High,1467858
gww,WW Grainger Inc,USD,NEW YORK STOCK EXCHANGE INC.,NA,https://static.finnhub.io/logo/gww.png,,B,Medium,BB,Medium,B,Medium,255,385,240,880,24-04-2022,BB,Medium,277135
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T, input string) *PipelineConfig {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Source.Path = input
	cfg.Output.Destination = filepath.Join(t.TempDir(), "cleaned_esg.csv")
	return cfg
}
