package stdlib

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
)

// connHandle wraps an open database connection as a runtime value.
type connHandle struct {
	db   *sql.DB
	path string
}

func (c *connHandle) Type() object.ObjectType { return "SQLITE_CONNECTION" }
func (c *connHandle) Inspect() string {
	return fmt.Sprintf("<sqlite connection to '%s'>", c.path)
}

// NewSqliteModule builds the native _sqlite module: connect, execute,
// query and close over a modernc.org/sqlite database.
func NewSqliteModule() (*object.Module, error) {
	mod := object.NewModule("_sqlite")
	mod.SetAttr("__name__", &object.String{Value: "_sqlite"})

	mod.SetAttr("connect", &object.Builtin{Name: "connect", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) != 1 {
			return nil, pyerr.Raise("TypeError", "connect() takes exactly one argument (%d given)", len(args))
		}
		path, ok := args[0].(*object.String)
		if !ok {
			return nil, pyerr.Raise("TypeError", "connect() argument must be a string path")
		}
		db, err := sql.Open("sqlite", path.Value)
		if err != nil {
			return nil, pyerr.Raise("OperationalError", "unable to open database '%s': %s", path.Value, err)
		}
		return &connHandle{db: db, path: path.Value}, nil
	}})

	mod.SetAttr("execute", &object.Builtin{Name: "execute", Fn: func(args ...object.Object) (object.Object, error) {
		conn, query, err := connArgs("execute", args)
		if err != nil {
			return nil, err
		}
		result, err := conn.db.Exec(query)
		if err != nil {
			return nil, pyerr.Raise("OperationalError", "%s", err)
		}
		affected, _ := result.RowsAffected()
		return &object.Integer{Value: affected}, nil
	}})

	mod.SetAttr("query", &object.Builtin{Name: "query", Fn: func(args ...object.Object) (object.Object, error) {
		conn, query, err := connArgs("query", args)
		if err != nil {
			return nil, err
		}
		rows, err := conn.db.Query(query)
		if err != nil {
			return nil, pyerr.Raise("OperationalError", "%s", err)
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return nil, pyerr.Raise("OperationalError", "%s", err)
		}
		out := &object.List{}
		for rows.Next() {
			raw := make([]sql.NullString, len(cols))
			ptrs := make([]interface{}, len(cols))
			for i := range raw {
				ptrs[i] = &raw[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return nil, pyerr.Raise("OperationalError", "%s", err)
			}
			row := &object.List{}
			for _, cell := range raw {
				if cell.Valid {
					row.Elements = append(row.Elements, &object.String{Value: cell.String})
				} else {
					row.Elements = append(row.Elements, object.None)
				}
			}
			out.Elements = append(out.Elements, row)
		}
		if err := rows.Err(); err != nil {
			return nil, pyerr.Raise("OperationalError", "%s", err)
		}
		return out, nil
	}})

	mod.SetAttr("close", &object.Builtin{Name: "close", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) != 1 {
			return nil, pyerr.Raise("TypeError", "close() takes exactly one argument (%d given)", len(args))
		}
		conn, ok := args[0].(*connHandle)
		if !ok {
			return nil, pyerr.Raise("TypeError", "close() argument must be a connection")
		}
		if err := conn.db.Close(); err != nil {
			return nil, pyerr.Raise("OperationalError", "%s", err)
		}
		return object.None, nil
	}})

	return mod, nil
}

func connArgs(fn string, args []object.Object) (*connHandle, string, error) {
	if len(args) != 2 {
		return nil, "", pyerr.Raise("TypeError", "%s() takes exactly two arguments (%d given)", fn, len(args))
	}
	conn, ok := args[0].(*connHandle)
	if !ok {
		return nil, "", pyerr.Raise("TypeError", "%s() first argument must be a connection", fn)
	}
	query, ok := args[1].(*object.String)
	if !ok {
		return nil, "", pyerr.Raise("TypeError", "%s() second argument must be a string", fn)
	}
	return conn, query.Value, nil
}
