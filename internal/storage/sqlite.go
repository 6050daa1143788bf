package storage

import (
	"context"
	"database/sql"
	"errors"
	"net/url"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"today/internal/task"
)

// SQLiteStore keeps tasks in a private in-memory SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", memoryDSN("today-"+uuid.NewString()))
	if err != nil {
		return nil, err
	}
	// The in-memory database lives exactly as long as its one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	position INTEGER NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	completed INTEGER NOT NULL DEFAULT 0,
	date TEXT NOT NULL DEFAULT '',
	tag TEXT NOT NULL DEFAULT '',
	list TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS subtasks (
	task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	completed INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (task_id, id)
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLiteStore) List(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, completed, date, tag, list FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []task.Task{}
	index := map[int]int{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subRows, err := s.db.QueryContext(ctx, `SELECT task_id, id, title, completed FROM subtasks ORDER BY task_id, position;`)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()
	for subRows.Next() {
		var taskID, completed int
		var st task.Subtask
		if err := subRows.Scan(&taskID, &st.ID, &st.Title, &completed); err != nil {
			return nil, err
		}
		st.Completed = completed == 1
		if i, ok := index[taskID]; ok {
			tasks[i].Subtasks = append(tasks[i].Subtasks, st)
		}
	}
	return tasks, subRows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id int) (task.Task, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, description, completed, date, tag, list FROM tasks WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, false, nil
	}
	if err != nil {
		return task.Task{}, false, err
	}
	t.Subtasks, err = loadSubtasks(ctx, s.db, id)
	if err != nil {
		return task.Task{}, false, err
	}
	return t, true, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, t task.Task) (task.Task, error) {
	if err := checkSubtaskIDs(t); err != nil {
		return task.Task{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return task.Task{}, err
	}
	defer tx.Rollback()

	t = t.Clone()
	exists := false
	if t.ID != 0 {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?;`, t.ID).Scan(&one)
		switch {
		case err == nil:
			exists = true
		case !errors.Is(err, sql.ErrNoRows):
			return task.Task{}, err
		}
	}

	if exists {
		_, err = tx.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, completed = ?, date = ?, tag = ?, list = ? WHERE id = ?;`,
			t.Title, t.Description, boolInt(t.Completed), t.Date, t.Tag, t.List, t.ID)
		if err != nil {
			return task.Task{}, err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?;`, t.ID); err != nil {
			return task.Task{}, err
		}
	} else {
		id, err := insertTask(ctx, tx, t, false)
		if err != nil {
			return task.Task{}, err
		}
		t.ID = id
	}
	if err := insertSubtasks(ctx, tx, t); err != nil {
		return task.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?;`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace swaps the whole collection, keeping the ids it is given. AUTOINCREMENT keeps
// fresh ids above every id the database has ever held.
func (s *SQLiteStore) Replace(ctx context.Context, tasks []task.Task) error {
	if err := checkUniqueIDs(tasks); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks;`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks;`); err != nil {
		return err
	}
	// Fresh ids start above the highest id ever issued and every id in the new list.
	next, err := lastTaskID(ctx, tx)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		next = max(next, t.ID)
	}
	for _, t := range tasks {
		if t.ID == 0 {
			next++
			t.ID = next
		}
		if _, err := insertTask(ctx, tx, t, true); err != nil {
			return err
		}
		if err := insertSubtasks(ctx, tx, t); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// lastTaskID is the highest id AUTOINCREMENT has handed out, or 0 before the first insert.
func lastTaskID(ctx context.Context, tx *sql.Tx) (int, error) {
	var tables int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence';`).Scan(&tables)
	if err != nil || tables == 0 {
		return 0, err
	}
	var seq int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM sqlite_sequence WHERE name = 'tasks';`).Scan(&seq)
	return seq, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (task.Task, error) {
	var t task.Task
	var completed int
	if err := r.Scan(&t.ID, &t.Title, &t.Description, &completed, &t.Date, &t.Tag, &t.List); err != nil {
		return task.Task{}, err
	}
	t.Completed = completed == 1
	t.Subtasks = []task.Subtask{}
	return t, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadSubtasks(ctx context.Context, q queryer, taskID int) ([]task.Subtask, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, title, completed FROM subtasks WHERE task_id = ? ORDER BY position;`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []task.Subtask{}
	for rows.Next() {
		var st task.Subtask
		var completed int
		if err := rows.Scan(&st.ID, &st.Title, &completed); err != nil {
			return nil, err
		}
		st.Completed = completed == 1
		out = append(out, st)
	}
	return out, rows.Err()
}

func insertTask(ctx context.Context, tx *sql.Tx, t task.Task, keepID bool) (int, error) {
	var id any
	if keepID {
		id = t.ID
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO tasks (id, position, title, description, completed, date, tag, list)
VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks), ?, ?, ?, ?, ?, ?);`,
		id, t.Title, t.Description, boolInt(t.Completed), t.Date, t.Tag, t.List)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(newID), nil
}

func insertSubtasks(ctx context.Context, tx *sql.Tx, t task.Task) error {
	for i, st := range t.Subtasks {
		_, err := tx.ExecContext(ctx, `INSERT INTO subtasks (task_id, id, position, title, completed) VALUES (?, ?, ?, ?, ?);`,
			t.ID, st.ID, i, st.Title, boolInt(st.Completed))
		if err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func memoryDSN(name string) string {
	u := url.URL{
		Scheme: "file",
		Opaque: name,
	}
	q := url.Values{}
	q.Set("mode", "memory")
	q.Set("cache", "shared")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
