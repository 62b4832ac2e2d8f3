package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"microblog/db"
	"microblog/models"
)

const (
	FilterAll       = "all"
	FilterFollowing = "following"

	DefaultTimelineLimit = 20
	MaxTimelineLimit     = 100
)

// TimelineService собирает страницы ленты: гибрид fan-out-on-write
// (материализованные feed_entries) и fan-out-on-read (live-посты селебрити),
// с cache-aside кешем первой страницы.
type TimelineService struct {
	cache TimelineCache
	graph *FollowGraphService
}

func NewTimelineService() *TimelineService {
	return NewTimelineServiceWithCache(NewTimelineCache())
}

func NewTimelineServiceWithCache(cache TimelineCache) *TimelineService {
	return &TimelineService{
		cache: cache,
		graph: NewFollowGraphService(),
	}
}

// parseCursor разбирает курсор пагинации (created_at последнего поста
// предыдущей страницы). Невалидный курсор равен отсутствующему.
func parseCursor(cursor string) time.Time {
	if cursor == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, cursor)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatCursor(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// GetTimeline возвращает одну страницу ленты для читателя.
// Посты страницы строго старше курсора (exclusive, по убыванию created_at),
// поэтому пагинация не ломается от конкурентных вставок впереди курсора.
func (ts *TimelineService) GetTimeline(ctx context.Context, readerID int64, filter string, cursor string, limit int) (*models.TimelineResponse, error) {
	if filter != FilterAll && filter != FilterFollowing {
		return nil, fmt.Errorf("%w: unknown filter %q", ErrValidation, filter)
	}
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	if limit > MaxTimelineLimit {
		limit = MaxTimelineLimit
	}

	since := parseCursor(cursor)
	firstPage := since.IsZero()

	// Кешируется только первая страница; страницы продолжения всегда из БД
	if firstPage {
		page, err := ts.cache.Get(ctx, readerID, filter)
		// Несконфигурированный кеш - штатная деградация, без шума в логах
		if err != nil && !errors.Is(err, ErrCacheDisabled) {
			log.Printf("WARN: timeline cache read failed for user %d: %v", readerID, err)
		}
		if err == nil && page != nil {
			timelineRequestsTotal.WithLabelValues(filter, "cache").Inc()
			return page, nil
		}
	}

	var page *models.TimelineResponse
	var err error
	switch filter {
	case FilterAll:
		page, err = ts.buildGlobalPage(ctx, since, limit)
	case FilterFollowing:
		page, err = ts.buildFollowingPage(ctx, readerID, since, limit)
	}
	if err != nil {
		return nil, err
	}
	timelineRequestsTotal.WithLabelValues(filter, "db").Inc()

	if firstPage {
		if err := ts.cache.Set(ctx, readerID, filter, page); err != nil && !errors.Is(err, ErrCacheDisabled) {
			log.Printf("WARN: timeline cache write failed for user %d: %v", readerID, err)
		}
	}

	return page, nil
}

// buildGlobalPage - лента "все": последние посты всех авторов
func (ts *TimelineService) buildGlobalPage(ctx context.Context, since time.Time, limit int) (*models.TimelineResponse, error) {
	query := db.GetReadOnlyDB(ctx).
		Table("posts p").
		Select("p.id, p.user_id, u.nickname, u.display_name, p.content, p.created_at").
		Joins("JOIN users u ON u.id = p.user_id").
		Order("p.created_at DESC, p.id DESC").
		Limit(limit)

	if !since.IsZero() {
		query = query.Where("p.created_at < ?", since)
	}

	var posts []models.TimelinePost
	if err := query.Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to get global feed: %v", ErrDataUnavailable, err)
	}

	return makePage(posts, len(posts) == limit), nil
}

// buildFollowingPage - лента "подписки": материализованные записи читателя
// плюс live-посты селебрити, на которых он подписан
func (ts *TimelineService) buildFollowingPage(ctx context.Context, readerID int64, since time.Time, limit int) (*models.TimelineResponse, error) {
	followees, err := ts.graph.GetFollowees(ctx, readerID)
	if err != nil {
		return nil, err
	}

	celebrities, _, err := ts.graph.SplitCelebrities(ctx, followees)
	if err != nil {
		return nil, err
	}

	// Обе выборки ограничены limit по отдельности: слитый набор может быть
	// длиннее страницы, излишек срезается после сортировки
	precomputed, err := ts.fetchPrecomputed(ctx, readerID, since, limit)
	if err != nil {
		return nil, err
	}

	var live []models.TimelinePost
	if len(celebrities) > 0 {
		live, err = ts.fetchAuthoredBy(ctx, celebrities, since, limit)
		if err != nil {
			return nil, err
		}
	}

	merged := mergeTimelinePosts(precomputed, live)
	hasMore := len(merged) >= limit
	if len(merged) > limit {
		merged = merged[:limit]
	}

	return makePage(merged, hasMore), nil
}

func (ts *TimelineService) fetchPrecomputed(ctx context.Context, readerID int64, since time.Time, limit int) ([]models.TimelinePost, error) {
	query := db.GetReadOnlyDB(ctx).
		Table("feed_entries fe").
		Select("p.id, p.user_id, u.nickname, u.display_name, p.content, p.created_at").
		Joins("JOIN posts p ON p.id = fe.post_id").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("fe.owner_id = ?", readerID).
		Order("fe.post_created_at DESC, fe.post_id DESC").
		Limit(limit)

	if !since.IsZero() {
		query = query.Where("fe.post_created_at < ?", since)
	}

	var posts []models.TimelinePost
	if err := query.Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to get precomputed feed: %v", ErrDataUnavailable, err)
	}
	return posts, nil
}

func (ts *TimelineService) fetchAuthoredBy(ctx context.Context, authorIDs []int64, since time.Time, limit int) ([]models.TimelinePost, error) {
	query := db.GetReadOnlyDB(ctx).
		Table("posts p").
		Select("p.id, p.user_id, u.nickname, u.display_name, p.content, p.created_at").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("p.user_id IN ?", authorIDs).
		Order("p.created_at DESC, p.id DESC").
		Limit(limit)

	if !since.IsZero() {
		query = query.Where("p.created_at < ?", since)
	}

	var posts []models.TimelinePost
	if err := query.Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to get celebrity posts: %v", ErrDataUnavailable, err)
	}
	return posts, nil
}

// mergeTimelinePosts сливает два набора по id поста (при коллизии выигрывает
// первый источник) и сортирует результат по убыванию времени
func mergeTimelinePosts(primary, secondary []models.TimelinePost) []models.TimelinePost {
	seen := make(map[int64]struct{}, len(primary)+len(secondary))
	merged := make([]models.TimelinePost, 0, len(primary)+len(secondary))

	for _, sources := range [][]models.TimelinePost{primary, secondary} {
		for _, post := range sources {
			if _, ok := seen[post.ID]; ok {
				continue
			}
			seen[post.ID] = struct{}{}
			merged = append(merged, post)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].ID > merged[j].ID
	})
	return merged
}

func makePage(posts []models.TimelinePost, hasMore bool) *models.TimelineResponse {
	if posts == nil {
		posts = []models.TimelinePost{}
	}

	var nextCursor *string
	if len(posts) > 0 {
		cursor := formatCursor(posts[len(posts)-1].CreatedAt)
		nextCursor = &cursor
	}

	return &models.TimelineResponse{
		Posts:      posts,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}
}
