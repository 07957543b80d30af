package purefn

import (
	"github.com/on-the-ground/memo_ive_go/memo"
	"github.com/on-the-ground/memo_ive_go/shared/helper"
)

func TableizeI1O1[I1, O1 any](
	pureFn func(I1) O1,
	opts ...memo.Option,
) func(I1) O1 {
	tableized := tableize(
		func(args ...any) O1 {
			return pureFn(helper.Arg[I1](args, 0))
		},
		opts,
	)
	return func(i1 I1) O1 {
		return tableized(i1)
	}
}

func TableizeI2O1[I1, I2, O1 any](
	pureFn func(I1, I2) O1,
	opts ...memo.Option,
) func(I1, I2) O1 {
	tableized := tableize(
		func(args ...any) O1 {
			return pureFn(helper.Arg[I1](args, 0), helper.Arg[I2](args, 1))
		},
		opts,
	)
	return func(i1 I1, i2 I2) O1 {
		return tableized(i1, i2)
	}
}

func TableizeI3O1[I1, I2, I3, O1 any](
	pureFn func(I1, I2, I3) O1,
	opts ...memo.Option,
) func(I1, I2, I3) O1 {
	tableized := tableize(
		func(args ...any) O1 {
			return pureFn(helper.Arg[I1](args, 0), helper.Arg[I2](args, 1), helper.Arg[I3](args, 2))
		},
		opts,
	)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return tableized(i1, i2, i3)
	}
}

func TableizeI4O1[I1, I2, I3, I4, O1 any](
	pureFn func(I1, I2, I3, I4) O1,
	opts ...memo.Option,
) func(I1, I2, I3, I4) O1 {
	tableized := tableize(
		func(args ...any) O1 {
			return pureFn(
				helper.Arg[I1](args, 0),
				helper.Arg[I2](args, 1),
				helper.Arg[I3](args, 2),
				helper.Arg[I4](args, 3),
			)
		},
		opts,
	)
	return func(i1 I1, i2 I2, i3 I3, i4 I4) O1 {
		return tableized(i1, i2, i3, i4)
	}
}

// tableize memoizes pureFn and panics on arguments that have no canonical
// key, since the typed signatures leave no room for an error.
func tableize[O any](
	pureFn func(...any) O,
	opts []memo.Option,
) func(...any) O {
	m := memo.New(pureFn, opts...)
	return func(args ...any) O {
		v, err := m.Call(args...)
		if err != nil {
			panic(err)
		}
		return v
	}
}
