// Package memory keeps every document in process memory. It implements the same
// storage interfaces as the postgres package and is meant for tests and single node demos.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
)

var errForeignTx = errors.New("transaction was not created by the memory storage")
var errTxClosed = errors.New("transaction is already closed")
var errReadOnlyTx = errors.New("cannot write in a read-only transaction")

// record is a stored document. seq keeps the insertion order for listing.
type record struct {
	seq  int64
	data []byte
}

type table map[string]record

type outboxRecord struct {
	recID int64
	key   string
	msg   []byte
}

type state struct {
	seq int64

	billOfLadings table
	containers    table
	payments      table
	offices       table
	apiKeys       table
	webhooks      table
	events        table
	outbox        []outboxRecord
}

func newState() state {
	return state{
		billOfLadings: table{},
		containers:    table{},
		payments:      table{},
		offices:       table{},
		apiKeys:       table{},
		webhooks:      table{},
		events:        table{},
	}
}

// clone copies the tables. Documents are immutable byte slices so they can be shared.
func (s state) clone() state {
	cp := state{
		seq:           s.seq,
		billOfLadings: s.billOfLadings.clone(),
		containers:    s.containers.clone(),
		payments:      s.payments.clone(),
		offices:       s.offices.clone(),
		apiKeys:       s.apiKeys.clone(),
		webhooks:      s.webhooks.clone(),
		events:        s.events.clone(),
		outbox:        append([]outboxRecord(nil), s.outbox...),
	}
	return cp
}

func (t table) clone() table {
	cp := make(table, len(t))
	for k, v := range t {
		cp[k] = v
	}
	return cp
}

// put stores value under id, keeping the original position of an existing document.
func (s *state) put(t table, id string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	rec, ok := t[id]
	if !ok {
		s.seq++
		rec.seq = s.seq
	}
	rec.data = data
	t[id] = rec
	return nil
}

func get[T any](t table, id string) (T, bool, error) {
	var value T
	rec, ok := t[id]
	if !ok {
		return value, false, nil
	}
	if err := json.Unmarshal(rec.data, &value); err != nil {
		return value, false, err
	}
	return value, true, nil
}

// scan decodes every document of the table in insertion order and keeps those accepted by filter.
func scan[T any](t table, filter func(T) bool) ([]T, error) {
	recs := make([]record, 0, len(t))
	for _, rec := range t {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	result := make([]T, 0, len(recs))
	for _, rec := range recs {
		var value T
		if err := json.Unmarshal(rec.data, &value); err != nil {
			return nil, err
		}
		if filter == nil || filter(value) {
			result = append(result, value)
		}
	}
	return result, nil
}

func paginate[T any](records []T, offset, limit int) []T {
	if offset >= len(records) {
		return nil
	}
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return records[offset:end]
}

type _Storage struct {
	mu    sync.RWMutex
	state state
}

// _Tx works on a private copy of the state. A write transaction holds the
// storage lock until it is committed or rolled back.
type _Tx struct {
	storage *_Storage
	state   state
	write   bool
	closed  bool
}

func NewStorage() *_Storage {
	return &_Storage{state: newState()}
}

func (s *_Storage) CreateTx(ctx context.Context, options ...storage.CreateTxOption) (storage.Tx, context.Context, error) {
	sqlTxOption := sql.TxOptions{}
	for _, opt := range options {
		opt(&sqlTxOption)
	}

	tx := &_Tx{storage: s, write: !sqlTxOption.ReadOnly}
	if tx.write {
		s.mu.Lock()
		tx.state = s.state.clone()
	} else {
		s.mu.RLock()
		tx.state = s.state.clone()
		s.mu.RUnlock()
	}
	return tx, context.WithValue(ctx, storage.TRANSACTION, tx), nil
}

func (tx *_Tx) Commit(ctx context.Context) error {
	if tx.closed {
		return errTxClosed
	}
	tx.closed = true
	if tx.write {
		tx.storage.state = tx.state
		tx.storage.mu.Unlock()
	}
	return nil
}

// Rollback discards the staged state. Calling it after Commit is a no-op.
func (tx *_Tx) Rollback(ctx context.Context) error {
	if tx.closed {
		return nil
	}
	tx.closed = true
	if tx.write {
		tx.storage.mu.Unlock()
	}
	return nil
}

func unwrapTx(tx storage.Tx) (*_Tx, error) {
	memTx, ok := tx.(*_Tx)
	if !ok {
		return nil, errForeignTx
	}
	if memTx.closed {
		return nil, errTxClosed
	}
	return memTx, nil
}

func writableTx(tx storage.Tx) (*_Tx, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	if !memTx.write {
		return nil, errReadOnlyTx
	}
	return memTx, nil
}
