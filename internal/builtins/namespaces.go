package builtins

import (
	"context"
	"math"
	"strings"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/store"
)

func unary(name string, fn func(float64) float64) Native {
	return Native{
		Name:  name,
		Arity: 1,
		Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
			x, err := expectNumber(name, args[0])
			if err != nil {
				return nil, err
			}
			return fn(x), nil
		},
	}
}

func fold(name string, fn func(a, b float64) float64) Native {
	return Native{
		Name:  name,
		Arity: Variadic,
		Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
			if len(args) == 0 {
				return nil, mdwerror.Newf("%s expects at least one argument", name).
					WithCode(mdwerror.CodeInvalidInput).
					WithOperation("builtins." + name)
			}
			acc, err := expectNumber(name, args[0])
			if err != nil {
				return nil, err
			}
			for _, a := range args[1:] {
				x, err := expectNumber(name, a)
				if err != nil {
					return nil, err
				}
				acc = fn(acc, x)
			}
			return acc, nil
		},
	}
}

func mathNamespace() *store.Map {
	m := namespace(
		unary("abs", math.Abs),
		unary("floor", math.Floor),
		unary("ceil", math.Ceil),
		unary("round", func(x float64) float64 { return math.Floor(x + 0.5) }),
		unary("sqrt", math.Sqrt),
		fold("max", math.Max),
		fold("min", math.Min),
		fold("sum", func(a, b float64) float64 { return a + b }),
		Native{
			Name:  "pow",
			Arity: 2,
			Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
				x, err := expectNumber("pow", args[0])
				if err != nil {
					return nil, err
				}
				y, err := expectNumber("pow", args[1])
				if err != nil {
					return nil, err
				}
				return math.Pow(x, y), nil
			},
		},
	)
	m.Set("PI", math.Pi)
	return m
}

func stringsNamespace() *store.Map {
	return namespace(
		Native{
			Name:  "concat",
			Arity: Variadic,
			Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
				var b strings.Builder
				for _, a := range args {
					b.WriteString(display(a))
				}
				return b.String(), nil
			},
		},
		Native{
			Name:  "upper",
			Arity: 1,
			Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
				s, err := expectString("upper", args[0])
				return strings.ToUpper(s), err
			},
		},
		Native{
			Name:  "lower",
			Arity: 1,
			Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
				s, err := expectString("lower", args[0])
				return strings.ToLower(s), err
			},
		},
		Native{
			Name:  "length",
			Arity: 1,
			Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
				switch t := args[0].(type) {
				case string:
					return float64(len([]rune(t))), nil
				case []store.Value:
					return float64(len(t)), nil
				case *store.Map:
					return float64(t.Len()), nil
				}
				return nil, mdwerror.Newf("length expects a string, array or map, got %s", store.TypeName(args[0])).
					WithCode(mdwerror.CodeInvalidInput).
					WithOperation("builtins.length")
			},
		},
		Native{
			Name:  "split",
			Arity: 2,
			Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
				s, err := expectString("split", args[0])
				if err != nil {
					return nil, err
				}
				sep, err := expectString("split", args[1])
				if err != nil {
					return nil, err
				}
				parts := strings.Split(s, sep)
				out := make([]store.Value, len(parts))
				for i, p := range parts {
					out[i] = p
				}
				return out, nil
			},
		},
		Native{
			Name:  "join",
			Arity: 2,
			Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
				list, ok := args[0].([]store.Value)
				if !ok {
					return nil, mdwerror.Newf("join expects an array, got %s", store.TypeName(args[0])).
						WithCode(mdwerror.CodeInvalidInput).
						WithOperation("builtins.join")
				}
				sep, err := expectString("join", args[1])
				if err != nil {
					return nil, err
				}
				parts := make([]string, len(list))
				for i, v := range list {
					parts[i] = display(v)
				}
				return strings.Join(parts, sep), nil
			},
		},
	)
}

func jsonNamespace() *store.Map {
	return namespace(
		Native{
			Name:  "stringify",
			Arity: 1,
			Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
				out := store.Render(args[0])
				if out == store.Undefined {
					return store.Void, nil
				}
				return out, nil
			},
		},
		Native{
			Name:  "parse",
			Arity: 1,
			Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
				s, err := expectString("parse", args[0])
				if err != nil {
					return nil, err
				}
				decoded, err := store.ParseJSON([]byte(s))
				if err != nil {
					return nil, mdwerror.Wrap(err, "json.parse").
						WithCode(mdwerror.CodeInvalidInput).
						WithOperation("builtins.parse")
				}
				return decoded, nil
			},
		},
	)
}
