package main

import (
    "context"
    "fmt"
    "math"
    "os"
    "sort"
    "strconv"
    "sync"
    "time"

    "github.com/d60-Lab/tweetfeed/config"
    "github.com/d60-Lab/tweetfeed/internal/repository"
    "github.com/d60-Lab/tweetfeed/internal/service"
    "github.com/d60-Lab/tweetfeed/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
    if len(vs) == 0 { return 0 }
    xs := append([]time.Duration(nil), vs...)
    sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
    k := int(math.Ceil(p*float64(len(xs)))) - 1
    if k < 0 { k = 0 }
    if k >= len(xs) { k = len(xs)-1 }
    return xs[k]
}

func envInt(key string, def int) int {
    if s := os.Getenv(key); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { return v } }
    return def
}

// 同一 (post, user) 并发切换点赞，验证唯一键兜底：每个用户最终 0 或 1 条点赞
func main() {
    cfg := must(config.Load())
    db := must(database.InitDB(cfg))
    if err := database.Migrate(db); err != nil { panic(err) }

    posts := repository.NewPostRepository(db)
    likes := repository.NewLikeRepository(db)
    svc := service.NewFeedService(posts, likes)

    // params
    USERS := envInt("USERS", 50)     // distinct likers
    TOGGLES := envInt("TOGGLES", 4)  // concurrent toggles per user
    ROUNDS := envInt("ROUNDS", 5)

    ctx := context.Background()
    post := must(svc.Create(ctx, "likebench", fmt.Sprintf("bench %s", time.Now().Format(time.RFC3339))))

    var mu sync.Mutex
    durations := make([]time.Duration, 0, USERS*TOGGLES*ROUNDS)
    failures := 0

    for round := 0; round < ROUNDS; round++ {
        var wg sync.WaitGroup
        for u := 0; u < USERS; u++ {
            user := fmt.Sprintf("bench-u%03d", u)
            for k := 0; k < TOGGLES; k++ {
                wg.Add(1)
                go func() {
                    defer wg.Done()
                    st := time.Now()
                    _, err := svc.ToggleLike(ctx, post.ID, user)
                    d := time.Since(st)
                    mu.Lock()
                    durations = append(durations, d)
                    if err != nil { failures++ }
                    mu.Unlock()
                }()
            }
        }
        wg.Wait()
    }

    // verify: 每个用户至多一条
    type row struct { Username string; N int64 }
    var rows []row
    if err := db.Raw("SELECT username, COUNT(*) AS n FROM likes WHERE post_id = ? GROUP BY username", post.ID).Scan(&rows).Error; err != nil { panic(err) }
    dup := 0
    for _, r := range rows { if r.N > 1 { dup++ } }
    total := must(likes.CountByPost(ctx, post.ID))

    var sum time.Duration
    for _, d := range durations { sum += d }
    avg := time.Duration(0)
    if len(durations) > 0 { avg = sum / time.Duration(len(durations)) }

    fmt.Printf("DB=%s USERS=%d TOGGLES=%d ROUNDS=%d\n", cfg.Database.Driver, USERS, TOGGLES, ROUNDS)
    fmt.Printf("ToggleLike latency: n=%d avg=%v p95=%v p99=%v failures=%d\n", len(durations), avg, pct(durations, 0.95), pct(durations, 0.99), failures)
    fmt.Printf("Likes on post %d: total=%d users_with_like=%d duplicates=%d\n", post.ID, total, len(rows), dup)
    if dup > 0 {
        os.Exit(1)
    }
}
