package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"syster/internal/diag"
	"syster/internal/parser"
	"syster/internal/source"
)

const (
	maxFuzzInput = 1 << 16  // 64 KiB
	maxSeedBytes = 64 << 10 // ограничение для тестового корпуса
)

// languageSeeds covers the surface grammar plus the recovery paths that
// needed fixes in the past.
var languageSeeds = []string{
	"",
	"package Demo { }\n",
	"package Vehicles {\n\tpart def Engine {\n\t\tdoc /* Primary power unit. */\n\t\tpart cylinders : Cylinder;\n\t}\n\tpart def Cylinder;\n}\n",
	"package Plant {\n\tprivate import Vehicles::*;\n\tpart line : Engine;\n}\n",
	"package Shortcuts {\n\talias W for Lib::Widget;\n}\n",
	"package Marks {\n\t@deprecated part def Old;\n\tattribute def Mass :> ScalarValues::Real;\n}\n",
	"package Мир {\n\tpart def Вещь;\n}\n",
	"package P { part def 42; }",
	"alias Car Vehicle;",
	"package P { part x : ; }",
	"package P { doc /* open",
	"part def D { part def E { part def F { } } }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addBundleSeeds(f)
}

// addBundleSeeds feeds the bundled standard library sources in; they are
// the largest real inputs the parser sees in production.
func addBundleSeeds(f *testing.F) {
	root := filepath.Join("..", "stdlib", "assets")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".sysml", ".kerml":
		default:
			return nil
		}
		// #nosec G304 -- path comes from the repository asset walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

// fuzzText installs input as a virtual file and returns its normalized
// text. Span invariants must be checked against the normalized content,
// not the raw input.
func fuzzText(input []byte) (*source.Text, *source.Interner, error) {
	st := source.NewStore()
	id := st.Intern("fuzz.sysml")
	if _, err := st.Set(id, input, source.FileVirtual); err != nil {
		return nil, nil, err
	}
	st.MarkOpen(id, true)
	txt, err := st.Text(id)
	if err != nil {
		return nil, nil, err
	}
	return txt, st.Names(), nil
}

func fuzzParse(input []byte) (parser.Result, *source.Text, error) {
	txt, names, err := fuzzText(input)
	if err != nil {
		return parser.Result{}, nil, err
	}
	bag := diag.NewBag(128)
	res := parser.ParseText(txt, names, parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: 128,
	})
	return res, txt, nil
}
