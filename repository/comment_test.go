package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const liveIssueSQL = `EXISTS \(SELECT 1 FROM issues WHERE issues.id = comments.issue_id AND issues.is_deleted = \$\d\)`

func TestCommentRepository_HiddenUnderDeletedIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "comments" WHERE .*comments.issue_id = \$1.*` + liveIssueSQL).
			WithArgs(5, false, false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT \* FROM "comments" WHERE .*` + liveIssueSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id", "issue_id", "author_id", "content"}))

		q, err := ParseListQuery(CommentListSpec, nil)
		require.NoError(t, err)

		page, err := NewCommentRepository(db).List(ctx, 5, q)

		require.NoError(t, err)
		assert.Zero(t, page.Count)
		assert.Empty(t, page.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "comments" WHERE .*` + liveIssueSQL + `.*comments.id = \$4`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewCommentRepository(db).Get(ctx, 5, 9)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "comments" SET .*WHERE .*` + liveIssueSQL + `.*comments.id = `).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewCommentRepository(db).Update(ctx, 5, 9, map[string]interface{}{"content": "edited"})

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "comments" SET "is_deleted"=\$1 WHERE .*` + liveIssueSQL).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewCommentRepository(db).SoftDelete(ctx, 5, 9)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
