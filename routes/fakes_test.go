package routes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/voice-local/api-go/models"
	"github.com/voice-local/api-go/repository"
)

// memoryStore backs the in-memory repositories used by the router tests.
type memoryStore struct {
	mu         sync.Mutex
	nextID     uint
	users      map[uint]*models.User
	categories map[uint]*models.Category
	issues     map[uint]*models.Issue
	comments   map[uint]*models.Comment
	votes      map[[2]uint]models.VoteType
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:      map[uint]*models.User{},
		categories: map[uint]*models.Category{},
		issues:     map[uint]*models.Issue{},
		comments:   map[uint]*models.Comment{},
		votes:      map[[2]uint]models.VoteType{},
	}
}

func (s *memoryStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) liveIssue(id uint) (*models.Issue, bool) {
	issue, ok := s.issues[id]
	if !ok || issue.IsDeleted {
		return nil, false
	}
	return issue, true
}

func (s *memoryStore) author(id uint) models.User {
	if u, ok := s.users[id]; ok {
		return *u
	}
	return models.User{}
}

func (s *memoryStore) counts(issueID uint) repository.VoteCounts {
	var counts repository.VoteCounts
	for key, t := range s.votes {
		if key[0] != issueID {
			continue
		}
		if t == models.VoteUp {
			counts.Upvotes++
		} else {
			counts.Downvotes++
		}
	}
	return counts
}

func (s *memoryStore) issueDetail(issue *models.Issue) models.Issue {
	out := *issue
	out.Author = s.author(issue.AuthorID)
	out.Comments = s.liveComments(issue.ID)
	counts := s.counts(issue.ID)
	out.Upvotes, out.Downvotes = counts.Upvotes, counts.Downvotes
	return out
}

func (s *memoryStore) liveComments(issueID uint) []models.Comment {
	var out []models.Comment
	if _, ok := s.liveIssue(issueID); !ok {
		return out
	}
	for _, c := range s.comments {
		if c.IssueID == issueID && !c.IsDeleted {
			comment := *c
			comment.Author = s.author(c.AuthorID)
			out = append(out, comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// matches applies exact filters on stringified column values and the
// case-insensitive search terms.
func matches(q repository.ListQuery, column func(string) string, searchable ...string) bool {
	for _, f := range q.Filters {
		if column(f.Column) != fmt.Sprint(f.Value) {
			return false
		}
	}
	for _, term := range q.Terms {
		found := false
		for _, text := range searchable {
			if strings.Contains(strings.ToLower(text), strings.ToLower(term)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func paginate[T any](q repository.ListQuery, items []T) (*repository.Page[T], error) {
	total := int64(len(items))
	if err := q.CheckPage(total); err != nil {
		return nil, err
	}
	start := q.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + q.PageSize
	if end > len(items) {
		end = len(items)
	}
	return &repository.Page[T]{Items: items[start:end], Count: total}, nil
}

// liveComment finds a comment that is neither deleted itself nor under a
// deleted issue.
func (s *memoryStore) liveComment(issueID, id uint) (*models.Comment, bool) {
	if _, ok := s.liveIssue(issueID); !ok {
		return nil, false
	}
	c, ok := s.comments[id]
	if !ok || c.IssueID != issueID || c.IsDeleted {
		return nil, false
	}
	return c, true
}

func descending(q repository.ListQuery) bool {
	return len(q.Order) > 0 && q.Order[0].Desc
}

type fakeUsers struct{ *memoryStore }

func (r fakeUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return strings.EqualFold(u.EmailValue(), email) })
}

func (r fakeUsers) GetByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (r fakeUsers) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

type fakeCategories struct{ *memoryStore }

func (r fakeCategories) List(_ context.Context, q repository.ListQuery) (*repository.Page[models.Category], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []models.Category
	for _, c := range r.categories {
		column := func(col string) string {
			if col == "name" {
				return c.Name
			}
			return ""
		}
		if matches(q, column, c.Name, c.Description) {
			items = append(items, *c)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return paginate(q, items)
}

func (r fakeCategories) Get(_ context.Context, id uint) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r fakeCategories) nameTaken(name string, except uint) bool {
	for _, c := range r.categories {
		if c.Name == name && c.ID != except {
			return true
		}
	}
	return false
}

func (r fakeCategories) Create(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(category.Name, 0) {
		return repository.ErrDuplicate
	}
	category.ID = r.id()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r fakeCategories) Update(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return repository.ErrNotFound
	}
	if name, ok := fields["name"].(string); ok && r.nameTaken(name, id) {
		return repository.ErrDuplicate
	}
	for key, value := range fields {
		switch key {
		case "name":
			c.Name = value.(string)
		case "color":
			c.Color = value.(string)
		case "description":
			c.Description = value.(string)
		}
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (r fakeCategories) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return repository.ErrNotFound
	}
	for _, issue := range r.issues {
		if issue.CategoryID != nil && *issue.CategoryID == id {
			issue.CategoryID = nil
		}
	}
	delete(r.categories, id)
	return nil
}

type fakeIssues struct{ *memoryStore }

func (r fakeIssues) List(_ context.Context, q repository.ListQuery) (*repository.Page[models.Issue], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []models.Issue
	for _, issue := range r.issues {
		if issue.IsDeleted {
			continue
		}
		i := issue
		column := func(col string) string {
			switch col {
			case "status":
				return string(i.Status)
			case "priority":
				return string(i.Priority)
			case "author_id":
				return fmt.Sprint(i.AuthorID)
			case "category_id":
				if i.CategoryID == nil {
					return ""
				}
				return fmt.Sprint(*i.CategoryID)
			}
			return ""
		}
		if matches(q, column, i.Title, i.Description, i.Location) {
			items = append(items, r.issueDetail(i))
		}
	}
	desc := descending(q)
	sort.Slice(items, func(a, b int) bool {
		if desc {
			return items[a].ID > items[b].ID
		}
		return items[a].ID < items[b].ID
	})
	return paginate(q, items)
}

func (r fakeIssues) Get(_ context.Context, id uint) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.liveIssue(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.issueDetail(issue)
	return &out, nil
}

func (r fakeIssues) Create(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue.ID = r.id()
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	stored := *issue
	r.issues[issue.ID] = &stored
	return nil
}

func (r fakeIssues) Update(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.liveIssue(id)
	if !ok {
		return repository.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			issue.Title = value.(string)
		case "description":
			issue.Description = value.(string)
		case "location":
			issue.Location = value.(string)
		case "image_url":
			issue.ImageURL = value.(string)
		case "status":
			issue.Status = models.IssueStatus(value.(string))
		case "priority":
			issue.Priority = models.IssuePriority(value.(string))
		case "category_id":
			issue.CategoryID = value.(*uint)
		case "is_deleted":
			issue.IsDeleted = value.(bool)
		}
	}
	issue.UpdatedAt = time.Now()
	return nil
}

func (r fakeIssues) SoftDelete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.liveIssue(id)
	if !ok {
		return repository.ErrNotFound
	}
	issue.IsDeleted = true
	return nil
}

type fakeComments struct{ *memoryStore }

func (r fakeComments) List(_ context.Context, issueID uint, q repository.ListQuery) (*repository.Page[models.Comment], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []models.Comment
	for _, c := range r.liveComments(issueID) {
		comment := c
		column := func(col string) string {
			if col == "author_id" {
				return fmt.Sprint(comment.AuthorID)
			}
			return ""
		}
		if matches(q, column, comment.Content) {
			items = append(items, comment)
		}
	}
	if descending(q) {
		sort.Slice(items, func(a, b int) bool { return items[a].ID > items[b].ID })
	}
	return paginate(q, items)
}

func (r fakeComments) Get(_ context.Context, issueID, id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.liveComment(issueID, id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	out.Author = r.author(c.AuthorID)
	return &out, nil
}

func (r fakeComments) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.liveIssue(comment.IssueID); !ok {
		return repository.ErrNotFound
	}
	comment.ID = r.id()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r fakeComments) Update(_ context.Context, issueID, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.liveComment(issueID, id)
	if !ok {
		return repository.ErrNotFound
	}
	if content, ok := fields["content"].(string); ok {
		c.Content = content
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (r fakeComments) SoftDelete(_ context.Context, issueID, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.liveComment(issueID, id)
	if !ok {
		return repository.ErrNotFound
	}
	c.IsDeleted = true
	return nil
}

type fakeVotes struct{ *memoryStore }

func (r fakeVotes) Toggle(_ context.Context, issueID, userID uint, voteType models.VoteType) (*repository.VoteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !voteType.Valid() {
		return nil, fmt.Errorf("invalid vote type %q", voteType)
	}
	if _, ok := r.liveIssue(issueID); !ok {
		return nil, repository.ErrNotFound
	}

	key := [2]uint{issueID, userID}
	result := &repository.VoteResult{}
	existing, ok := r.votes[key]
	switch {
	case !ok:
		r.votes[key] = voteType
		result.Outcome = repository.VoteCreated
	case existing == voteType:
		delete(r.votes, key)
		result.Outcome = repository.VoteRetracted
	default:
		r.votes[key] = voteType
		result.Outcome = repository.VoteSwitched
	}
	if result.Outcome != repository.VoteRetracted {
		vt := voteType
		result.UserVote = &vt
	}
	result.VoteCounts = r.counts(issueID)
	return result, nil
}

func (r fakeVotes) Counts(_ context.Context, issueID uint) (*repository.VoteCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := r.counts(issueID)
	return &counts, nil
}
