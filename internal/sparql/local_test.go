// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package sparql

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/lodkit/lodkit/internal/client"
	"github.com/lodkit/lodkit/internal/common"

	"github.com/stretchr/testify/require"
)

// fakeExecution counts how often it is closed so tests can assert release
// on every exit path.
type fakeExecution struct {
	graph     *common.Graph
	resultSet *common.ResultSet
	boolean   bool
	closed    int
}

func (e *fakeExecution) Construct() (*common.Graph, error)  { return e.graph, nil }
func (e *fakeExecution) Describe() (*common.Graph, error)   { return e.graph, nil }
func (e *fakeExecution) Select() (*common.ResultSet, error) { return e.resultSet, nil }
func (e *fakeExecution) Ask() (bool, error)                 { return e.boolean, nil }
func (e *fakeExecution) Close() error                       { e.closed++; return nil }

type fakeEngine struct {
	execution *fakeExecution
	err       error
}

func (f *fakeEngine) NewExecution(query Query) (Execution, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.execution, nil
}

func localManager(t *testing.T) *DataManager {
	t.Helper()
	m, err := NewDataManager(http.DefaultClient, client.DefaultMediaTypes(), nil)
	require.NoError(t, err)
	return m
}

func TestLoadLocalModel(t *testing.T) {
	g, err := common.ParseGraph("<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n")
	require.NoError(t, err)

	exec := &fakeExecution{graph: g}
	engine := &fakeEngine{execution: exec}
	m := localManager(t)

	got, err := m.LoadLocalModel(engine, NewQuery("CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }"))
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	require.Equal(t, 1, exec.closed)

	got, err = m.LoadLocalModel(engine, NewQuery("DESCRIBE <http://example.org/s>"))
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	require.Equal(t, 2, exec.closed)
}

func TestLoadLocalModelRejectsWrongQueryType(t *testing.T) {
	exec := &fakeExecution{}
	engine := &fakeEngine{execution: exec}
	m := localManager(t)

	_, err := m.LoadLocalModel(engine, NewQuery("SELECT * WHERE { ?s ?p ?o }"))
	require.ErrorIs(t, err, ErrQueryType)
	// the execution is released even when the query type does not match
	require.Equal(t, 1, exec.closed)
}

func TestLoadLocalResultSet(t *testing.T) {
	exec := &fakeExecution{resultSet: &common.ResultSet{Vars: []string{"s"}}}
	engine := &fakeEngine{execution: exec}
	m := localManager(t)

	rs, err := m.LoadLocalResultSet(engine, NewQuery("SELECT ?s WHERE { ?s ?p ?o }"))
	require.NoError(t, err)
	require.Equal(t, []string{"s"}, rs.Vars)
	require.Equal(t, 1, exec.closed)

	_, err = m.LoadLocalResultSet(engine, NewQuery("ASK { ?s ?p ?o }"))
	require.ErrorIs(t, err, ErrQueryType)
	require.Equal(t, 2, exec.closed)
}

func TestAskLocal(t *testing.T) {
	exec := &fakeExecution{boolean: true}
	engine := &fakeEngine{execution: exec}
	m := localManager(t)

	got, err := m.AskLocal(engine, NewQuery("ASK { ?s ?p ?o }"))
	require.NoError(t, err)
	require.True(t, got)
	require.Equal(t, 1, exec.closed)

	_, err = m.AskLocal(engine, NewQuery("DESCRIBE <http://example.org/s>"))
	require.ErrorIs(t, err, ErrQueryType)
	require.Equal(t, 2, exec.closed)
}

func TestLocalEngineErrors(t *testing.T) {
	m := localManager(t)

	_, err := m.LoadLocalModel(nil, NewQuery("CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }"))
	require.Error(t, err)

	engine := &fakeEngine{err: fmt.Errorf("dataset is gone")}
	_, err = m.AskLocal(engine, NewQuery("ASK { ?s ?p ?o }"))
	require.Error(t, err)
}
