package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/addressbook/internal/model"
)

var contactColumns = []string{"family", "name", "surname", "organization", "working_phone", "mobile_phone"}

// createMockObjects builds a mock database handle and a mock object for defining our expected SQL
// calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

// expectPreparedStatements instructs the mock object to expect that the insert statement is being
// prepared.
func expectPreparedStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO contacts")
}

// newMockStore sets up the SQL store on top of the mock database.
func newMockStore(t *testing.T, db *sql.DB) *SQLStore {
	s, err := NewSQLStore(db, nil)
	require.NoError(t, err)
	return s
}

// TestSQLLoad selects all contacts. It expects NULL columns to become absent fields and the row
// order to be kept.
func TestSQLLoad(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	rows := mock.NewRows(contactColumns).
		AddRow("Smith", "John", nil, "Acme", nil, nil).
		AddRow("Doe", "Jane", "", nil, "84951234567", "89161234567")
	mock.ExpectQuery("SELECT (.+) FROM contacts ORDER BY id").
		WillReturnRows(rows)

	// Run test and compare results
	result, err := newMockStore(t, db).Load()
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, "Smith", *result.Records[0].Family)
	assert.Equal(t, "John", *result.Records[0].Name)
	assert.Nil(t, result.Records[0].Surname)
	assert.Equal(t, "Acme", *result.Records[0].Organization)
	assert.Nil(t, result.Records[0].MobilePhone)

	assert.Equal(t, "Doe", *result.Records[1].Family)
	if assert.NotNil(t, result.Records[1].Surname) {
		assert.Equal(t, "", *result.Records[1].Surname)
	}
	assert.Nil(t, result.Records[1].Organization)
	assert.Equal(t, "89161234567", *result.Records[1].MobilePhone)
	assert.Empty(t, result.Skipped)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSQLLoadError expects a failing query to be reported as an i/o error.
func TestSQLLoadError(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectQuery("SELECT (.+) FROM contacts").
		WillReturnError(errors.New("table 'contacts' doesn't exist"))

	// Run test and compare results
	_, err := newMockStore(t, db).Load()
	assert.ErrorIs(t, err, ErrIO)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSQLAppend inserts a partial record. It expects absent fields to be sent as NULL.
func TestSQLAppend(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Smith", "John", nil, "Acme", nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Run test and compare results
	err := newMockStore(t, db).Append(&model.Record{
		Family:       model.String("Smith"),
		Name:         model.String("John"),
		Organization: model.String("Acme"),
	})
	assert.NoError(t, err)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSQLSaveAll replaces all rows. It expects a delete and one insert per record within a single
// transaction.
func TestSQLSaveAll(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM contacts").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Smith", "John", nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Doe", nil, nil, nil, nil, "89161234567").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	// Run test and compare results
	err := newMockStore(t, db).SaveAll([]*model.Record{
		{Family: model.String("Smith"), Name: model.String("John")},
		{Family: model.String("Doe"), MobilePhone: model.String("89161234567")},
	})
	assert.NoError(t, err)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSQLSaveAllRollback expects the transaction to be rolled back when an insert fails.
func TestSQLSaveAllRollback(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM contacts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO contacts").
		WillReturnError(errors.New("data too long for column 'family'"))
	mock.ExpectRollback()

	// Run test and compare results
	err := newMockStore(t, db).SaveAll([]*model.Record{{Family: model.String("Smith")}})
	assert.ErrorIs(t, err, ErrIO)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
