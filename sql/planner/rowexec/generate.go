package rowexec

import "github.com/relcore/queryengine/sql"

// Generate applies generator to every row of child, concatenating each
// produced row with its input row when join is set, standing alone
// otherwise (§4.4). With outer set, an input row that generates zero
// rows still contributes one output row with the generator's columns
// null rather than vanishing from the result.
func Generate(ctx *sql.Context, child sql.RowIter, generator sql.Generator, join, outer bool, generatorWidth int) sql.RowIter {
	return &generateIter{
		ctx: ctx, child: child, generator: generator,
		join: join, outer: outer, generatorWidth: generatorWidth,
	}
}

type generateIter struct {
	ctx            *sql.Context
	child          sql.RowIter
	generator      sql.Generator
	join           bool
	outer          bool
	generatorWidth int

	pending []sql.Row
}

func (i *generateIter) Next() (sql.Row, error) {
	for {
		if len(i.pending) > 0 {
			row := i.pending[0]
			i.pending = i.pending[1:]
			return row, nil
		}

		inputRow, err := i.child.Next()
		if err != nil {
			return nil, err
		}

		generated, err := i.generator.EvalGenerator(i.ctx, inputRow)
		if err != nil {
			return nil, err
		}

		if len(generated) == 0 {
			if !i.outer {
				continue
			}
			i.pending = append(i.pending, i.outputRow(inputRow, nullRow(i.generatorWidth)))
			continue
		}
		for _, g := range generated {
			i.pending = append(i.pending, i.outputRow(inputRow, g))
		}
	}
}

func (i *generateIter) outputRow(input, generated sql.Row) sql.Row {
	if !i.join {
		return generated
	}
	return concatRow(input, generated)
}

func (i *generateIter) Close() error { return i.child.Close() }
