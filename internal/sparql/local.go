// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package sparql

import (
	"errors"
	"fmt"

	"github.com/lodkit/lodkit/internal/common"

	log "github.com/sirupsen/logrus"
)

// ErrQueryType is returned when a query's declared type does not match the
// operation requested, e.g. handing a CONSTRUCT query to the SELECT helper.
var ErrQueryType = errors.New("query type does not match requested operation")

// Execution is one run of a query against local data. It is acquired
// immediately before use and must be closed on every exit path.
type Execution interface {
	Construct() (*common.Graph, error)
	Describe() (*common.Graph, error)
	Select() (*common.ResultSet, error)
	Ask() (bool, error)
	Close() error
}

// Engine creates executions over an in-process graph or dataset. The actual
// query evaluation lives behind this interface; this package only dispatches
// on the query's declared type and guarantees release.
type Engine interface {
	NewExecution(query Query) (Execution, error)
}

func newExecution(engine Engine, query Query) (Execution, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	return engine.NewExecution(query)
}

func closeExecution(exec Execution) {
	if err := exec.Close(); err != nil {
		log.Errorf("Error closing query execution: %v", err)
	}
}

// LoadLocalModel runs a CONSTRUCT or DESCRIBE query against local data.
func (m *DataManager) LoadLocalModel(engine Engine, query Query) (*common.Graph, error) {
	log.Debugf("Local query: %s", query)

	exec, err := newExecution(engine, query)
	if err != nil {
		return nil, err
	}
	defer closeExecution(exec)

	switch query.Type() {
	case QueryConstruct:
		return exec.Construct()
	case QueryDescribe:
		return exec.Describe()
	default:
		return nil, fmt.Errorf("%w: got %s, want CONSTRUCT or DESCRIBE", ErrQueryType, query.Type())
	}
}

// LoadLocalResultSet runs a SELECT query against local data.
func (m *DataManager) LoadLocalResultSet(engine Engine, query Query) (*common.ResultSet, error) {
	log.Debugf("Local query: %s", query)

	exec, err := newExecution(engine, query)
	if err != nil {
		return nil, err
	}
	defer closeExecution(exec)

	if query.Type() != QuerySelect {
		return nil, fmt.Errorf("%w: got %s, want SELECT", ErrQueryType, query.Type())
	}
	return exec.Select()
}

// AskLocal runs an ASK query against local data.
func (m *DataManager) AskLocal(engine Engine, query Query) (bool, error) {
	log.Debugf("Local query: %s", query)

	exec, err := newExecution(engine, query)
	if err != nil {
		return false, err
	}
	defer closeExecution(exec)

	if query.Type() != QueryAsk {
		return false, fmt.Errorf("%w: got %s, want ASK", ErrQueryType, query.Type())
	}
	return exec.Ask()
}
