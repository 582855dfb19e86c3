package pipeline_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"

	"github.com/terratensor/csvhelpers/internal/app/pipeline"
	"github.com/terratensor/csvhelpers/internal/core/domain"
)

func ExampleEngine_Encode() {
	engine, err := pipeline.NewEngine(&domain.Options{Separator: ',', Quote: `"`, LineTerminator: "\n"}, logr.Discard())
	if err != nil {
		fmt.Println(err)
		return
	}

	rows := [][]any{{1, true, "Acme"}, {2, false, "Globex"}}
	next := 0
	_, err = engine.Encode(os.Stdout, func(domain.Options, logr.Logger) ([]any, error) {
		if next == len(rows) {
			return nil, nil
		}
		next++
		return rows[next-1], nil
	})
	if err != nil {
		fmt.Println(err)
	}
	// Output:
	// 1,true,"Acme"
	// 2,false,"Globex"
}

func ExampleEngine_Decode() {
	engine, err := pipeline.NewEngine(domain.DefaultOptions(), logr.Discard())
	if err != nil {
		fmt.Println(err)
		return
	}

	input := "1,true,\"Acme\"\na,,c\n"
	err = engine.Decode(strings.NewReader(input), func(fields []string, _ domain.Options, _ logr.Logger) error {
		fmt.Printf("%q\n", fields)
		return nil
	})
	if err != nil {
		fmt.Println(err)
	}
	// Output:
	// ["1" "true" "Acme"]
	// ["a" "" "c"]
}
