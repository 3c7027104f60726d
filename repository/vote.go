package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/voice-local/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxToggleAttempts bounds the insert/lock loop when a concurrent toggle
// removes the conflicting row between our insert and our lock.
const maxToggleAttempts = 3

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Toggle applies the caller's vote inside a single transaction:
// no row creates one, a row of the same type is retracted, a row of the
// other type is switched. Mutual exclusion comes from the unique
// (issue_id, user_id) index and the row lock.
func (r *voteRepository) Toggle(ctx context.Context, issueID, userID uint, voteType models.VoteType) (*VoteResult, error) {
	if !voteType.Valid() {
		return nil, fmt.Errorf("invalid vote type %q", voteType)
	}

	var result VoteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issue models.Issue
		err := tx.Select("id").
			Where("id = ? AND is_deleted = ?", issueID, false).
			Take(&issue).Error
		if err != nil {
			return translate(err)
		}

		outcome, err := toggle(tx, issueID, userID, voteType)
		if err != nil {
			return err
		}
		result.Outcome = outcome
		if outcome != VoteRetracted {
			vt := voteType
			result.UserVote = &vt
		}

		counts, err := countVotes(tx, issueID)
		if err != nil {
			return err
		}
		result.VoteCounts = *counts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func toggle(tx *gorm.DB, issueID, userID uint, voteType models.VoteType) (VoteOutcome, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		vote := models.Vote{IssueID: issueID, UserID: userID, Type: voteType}
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "issue_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).
			Create(&vote)
		if res.Error != nil {
			return "", fmt.Errorf("insert vote: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return VoteCreated, nil
		}

		var existing models.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("issue_id = ? AND user_id = ?", issueID, userID).
			Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Retracted concurrently after our insert conflicted; try again.
			continue
		}
		if err != nil {
			return "", fmt.Errorf("lock vote: %w", err)
		}

		if existing.Type == voteType {
			if err := tx.Delete(&existing).Error; err != nil {
				return "", fmt.Errorf("retract vote: %w", err)
			}
			return VoteRetracted, nil
		}

		if err := tx.Model(&existing).Update("type", voteType).Error; err != nil {
			return "", fmt.Errorf("switch vote: %w", err)
		}
		return VoteSwitched, nil
	}
	return "", fmt.Errorf("vote on issue %d kept changing under concurrent toggles", issueID)
}

func (r *voteRepository) Counts(ctx context.Context, issueID uint) (*VoteCounts, error) {
	return countVotes(r.db.WithContext(ctx), issueID)
}

func countVotes(db *gorm.DB, issueID uint) (*VoteCounts, error) {
	var counts VoteCounts
	err := db.Model(&models.Vote{}).
		Select("COALESCE(SUM(CASE WHEN votes.type = ? THEN 1 ELSE 0 END), 0) AS upvotes, "+
			"COALESCE(SUM(CASE WHEN votes.type = ? THEN 1 ELSE 0 END), 0) AS downvotes",
			string(models.VoteUp), string(models.VoteDown)).
		Where("votes.issue_id = ?", issueID).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}
	return &counts, nil
}
