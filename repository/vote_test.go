package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voice-local/api-go/models"
)

const (
	issueLookupSQL = `SELECT .* FROM "issues" WHERE id = \$1 AND is_deleted = \$2`
	voteInsertSQL  = `INSERT INTO "votes" .*ON CONFLICT .*DO NOTHING RETURNING "id"`
	voteLockSQL    = `SELECT \* FROM "votes" WHERE issue_id = \$1 AND user_id = \$2 .*FOR UPDATE`
	voteCountSQL   = `SELECT COALESCE\(SUM\(CASE WHEN votes.type = \$1`
)

var voteColumns = []string{"id", "issue_id", "user_id", "type", "created_at"}

func TestVoteRepository_Toggle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		voteType    models.VoteType
		setupMock   func(mock sqlmock.Sqlmock)
		wantOutcome VoteOutcome
		wantVote    *models.VoteType
		wantCounts  VoteCounts
	}{
		{
			name:     "first vote creates a row",
			voteType: models.VoteUp,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(issueLookupSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
				mock.ExpectQuery(voteInsertSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
				mock.ExpectQuery(voteCountSQL).WillReturnRows(sqlmock.NewRows([]string{"upvotes", "downvotes"}).AddRow(1, 0))
				mock.ExpectCommit()
			},
			wantOutcome: VoteCreated,
			wantVote:    voteTypePtr(models.VoteUp),
			wantCounts:  VoteCounts{Upvotes: 1},
		},
		{
			name:     "same type again retracts",
			voteType: models.VoteUp,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(issueLookupSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
				mock.ExpectQuery(voteInsertSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectQuery(voteLockSQL).
					WillReturnRows(sqlmock.NewRows(voteColumns).AddRow(11, 5, 7, "up", time.Now()))
				mock.ExpectExec(`DELETE FROM "votes" WHERE "votes"."id" = \$1`).
					WithArgs(11).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(voteCountSQL).WillReturnRows(sqlmock.NewRows([]string{"upvotes", "downvotes"}).AddRow(0, 0))
				mock.ExpectCommit()
			},
			wantOutcome: VoteRetracted,
			wantVote:    nil,
			wantCounts:  VoteCounts{},
		},
		{
			name:     "other type switches the row",
			voteType: models.VoteDown,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(issueLookupSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
				mock.ExpectQuery(voteInsertSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectQuery(voteLockSQL).
					WillReturnRows(sqlmock.NewRows(voteColumns).AddRow(11, 5, 7, "up", time.Now()))
				mock.ExpectExec(`UPDATE "votes" SET "type"=\$1 WHERE "id" = \$2`).
					WithArgs("down", 11).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(voteCountSQL).WillReturnRows(sqlmock.NewRows([]string{"upvotes", "downvotes"}).AddRow(2, 1))
				mock.ExpectCommit()
			},
			wantOutcome: VoteSwitched,
			wantVote:    voteTypePtr(models.VoteDown),
			wantCounts:  VoteCounts{Upvotes: 2, Downvotes: 1},
		},
		{
			name:     "row retracted concurrently is inserted again",
			voteType: models.VoteUp,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(issueLookupSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
				mock.ExpectQuery(voteInsertSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectQuery(voteLockSQL).WillReturnRows(sqlmock.NewRows(voteColumns))
				mock.ExpectQuery(voteInsertSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
				mock.ExpectQuery(voteCountSQL).WillReturnRows(sqlmock.NewRows([]string{"upvotes", "downvotes"}).AddRow(1, 0))
				mock.ExpectCommit()
			},
			wantOutcome: VoteCreated,
			wantVote:    voteTypePtr(models.VoteUp),
			wantCounts:  VoteCounts{Upvotes: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setupMock(mock)

			result, err := NewVoteRepository(db).Toggle(ctx, 5, 7, tt.voteType)
			require.NoError(t, err)

			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, tt.wantVote, result.UserVote)
			assert.Equal(t, tt.wantCounts, result.VoteCounts)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestVoteRepository_ToggleMissingIssue(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(issueLookupSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := NewVoteRepository(db).Toggle(context.Background(), 999999, 7, models.VoteUp)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_ToggleRejectsUnknownType(t *testing.T) {
	db, mock := newMockDB(t)

	_, err := NewVoteRepository(db).Toggle(context.Background(), 5, 7, models.VoteType("sideways"))

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_Counts(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(voteCountSQL).
		WillReturnRows(sqlmock.NewRows([]string{"upvotes", "downvotes"}).AddRow(3, 4))

	counts, err := NewVoteRepository(db).Counts(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, &VoteCounts{Upvotes: 3, Downvotes: 4}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func voteTypePtr(t models.VoteType) *models.VoteType {
	return &t
}
