package services

import (
	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

var SampleColumns = []string{"Id", "IsDeleted", "Cash", "Company", "Multiplex"}

// NewSampleTable generates rows of demo data: a sequential id, a deleted flag
// set on even ids, an amount of cash, a random word as company name and a
// floating point multiplex.
func NewSampleTable(rows int, faker *gofakeit.Faker) *Table {
	table := &Table{
		Columns: SampleColumns,
		Rows:    make([][]any, 0, rows),
	}

	for i := 0; i < rows; i++ {
		cash := decimal.New(int64(faker.Number(1, 98)*100+faker.Number(1, 98)), -2)
		multiplex := float64(faker.Number(1, 98))/100 + float64(faker.Number(100, 998))

		table.Rows = append(table.Rows, []any{
			int64(i),
			i%2 == 0,
			cash,
			faker.Word(),
			multiplex,
		})
	}

	return table
}
