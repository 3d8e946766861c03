package formatting_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

type sample struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type validated struct {
	Name string `json:"name"`
}

func (v validated) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("name required")
	}
	return nil
}

func TestParse(t *testing.T) {
	t.Run("direct JSON", func(t *testing.T) {
		got, err := formatting.Parse[sample](`{"name":"test","value":42}`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Name != "test" || got.Value != 42 {
			t.Errorf("Parse = %+v, want {Name:test Value:42}", got)
		}
	})

	t.Run("direct JSON with whitespace", func(t *testing.T) {
		got, err := formatting.Parse[sample](`  {"name":"padded","value":1}  `)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Name != "padded" {
			t.Errorf("Name = %q, want padded", got.Name)
		}
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		input := "```json\n{\"name\":\"fenced\",\"value\":7}\n```"
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Name != "fenced" || got.Value != 7 {
			t.Errorf("Parse = %+v, want {Name:fenced Value:7}", got)
		}
	})

	t.Run("markdown fenced with surrounding text", func(t *testing.T) {
		input := "Here is the result:\n```json\n{\"name\":\"wrapped\",\"value\":5}\n```\nDone."
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Name != "wrapped" || got.Value != 5 {
			t.Errorf("Parse = %+v, want {Name:wrapped Value:5}", got)
		}
	})

	t.Run("invalid content returns ErrParseFailed", func(t *testing.T) {
		_, err := formatting.Parse[sample]("not json at all")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("missing required field returns ErrParseFailed", func(t *testing.T) {
		_, err := formatting.Parse[validated](`{}`)
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("fenced content is validated", func(t *testing.T) {
		_, err := formatting.Parse[validated]("```json\n{}\n```")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})
}

func TestParseStrict(t *testing.T) {
	t.Run("bare JSON accepted", func(t *testing.T) {
		got, err := formatting.ParseStrict[sample](`{"name":"strict","value":9}`)
		if err != nil {
			t.Fatalf("ParseStrict error: %v", err)
		}
		if got.Name != "strict" {
			t.Errorf("Name = %q, want strict", got.Name)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := formatting.ParseStrict[sample](`{"name":"x","value":1,"extra":true}`)
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("fenced content rejected", func(t *testing.T) {
		_, err := formatting.ParseStrict[sample]("```json\n{\"name\":\"x\",\"value\":1}\n```")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("missing required field rejected", func(t *testing.T) {
		_, err := formatting.ParseStrict[validated](`{}`)
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})
}
