package version

import (
	"reflect"
	"testing"
)

func TestTokenizer_NextToken(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Token
	}{
		{name: "tokenizing an empty string", text: "", want: []Token{{}}},
		{name: "tokenizing a separator", text: ".", want: []Token{{Type: SepToken}, {}}},
		{name: "tokenizing a plain version", text: "1.2.3", want: []Token{{Text: "1", Type: NumToken}, {Type: SepToken}, {Text: "2", Type: NumToken}, {Type: SepToken}, {Text: "3", Type: NumToken}, {}}},
		{name: "tokenizing a version with a dash separator", text: "1.0-rc1", want: []Token{{Text: "1", Type: NumToken}, {Type: SepToken}, {Text: "0", Type: NumToken}, {Type: SepToken}, {Text: "rc", Type: AlphaToken}, {Text: "1", Type: NumToken}, {}}},
		{name: "tokenizing a version with mixed tokens", text: "2a.2.3", want: []Token{{Text: "2", Type: NumToken}, {Text: "a", Type: AlphaToken}, {Type: SepToken}, {Text: "2", Type: NumToken}, {Type: SepToken}, {Text: "3", Type: NumToken}, {}}},
		{name: "tokenizing a version with leading zeroes", text: "001.02.0", want: []Token{{Text: "1", Type: NumToken}, {Type: SepToken}, {Text: "2", Type: NumToken}, {Type: SepToken}, {Text: "0", Type: NumToken}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &Tokenizer{
				text: tt.text,
			}
			got := []Token{}
			for {
				token := tk.NextToken()
				if token == nil {
					break
				}
				got = append(got, *token)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NextToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	type args struct {
		a string
		b string
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		{name: "empty versions are equal", args: args{"", ""}, want: 0},
		{name: "empty is older than anything", args: args{"", "1"}, want: -1},
		{name: "anything is newer than empty", args: args{"1", ""}, want: 1},
		{name: "identical versions", args: args{"1.0", "1.0"}, want: 0},
		{name: "patch level wins", args: args{"1.0", "1.1"}, want: -1},
		{name: "numeric comparison, not lexical", args: args{"1.10", "1.9"}, want: 1},
		{name: "leading zeroes are ignored", args: args{"1.02", "1.2"}, want: 0},
		{name: "longer version is newer", args: args{"1.0-1", "1.0"}, want: 1},
		{name: "alpha suffix is newer than none", args: args{"1.0a", "1.0"}, want: 1},
		{name: "numeric token beats alpha token", args: args{"1.1", "1.a"}, want: 1},
		{name: "tilde marks a pre-release", args: args{"~1.0", "1.0"}, want: -1},
		{name: "tilde versions compare among themselves", args: args{"~1.1", "~1.0"}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.args.a, tt.args.b); got != tt.want {
				t.Errorf("Compare() = %v, want %v", got, tt.want)
			}
		})
	}
}
