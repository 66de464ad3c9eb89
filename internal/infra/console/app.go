package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"vista-nav/internal/application"
	"vista-nav/internal/domain"
	"vista-nav/internal/infra/vistaapi"
)

// JejuCity is used as the current position for plans and weather.
var JejuCity = domain.Coordinate{126.5312, 33.4996}

type Screen interface {
	Snapshot() application.ScreenState
	Subscribe() (<-chan application.ScreenState, func())
	ToggleVoice(ctx context.Context)
	SelectTab(tab domain.Tab)
	LoadRecommendations(ctx context.Context)
	SearchPOI(ctx context.Context, query, category string) []domain.POI
	DismissDialog()
}

// Backend holds the remote calls that have no place on the screen itself.
type Backend interface {
	CalculateRoute(ctx context.Context, req vistaapi.RouteRequest) (*vistaapi.RouteResponse, error)
	GenerateTravelPlan(ctx context.Context, query string, current *domain.Coordinate) (*vistaapi.TravelPlanResponse, error)
	GetWeatherInfo(ctx context.Context, at domain.Coordinate) (vistaapi.Document, error)
	GetTrafficInfo(ctx context.Context, routeID string) (vistaapi.Document, error)
	GenerateVoiceNavigation(ctx context.Context, routeID, currentStep int) (vistaapi.Document, error)
}

type Speaker interface {
	Speak(ctx context.Context, text string, opts domain.SpeechOptions) error
}

// App is the interactive terminal front end.
type App struct {
	screen  Screen
	backend Backend
	speaker Speaker
	out     io.Writer
	logger  *slog.Logger

	outMu sync.Mutex
	busy  atomic.Bool
}

func NewApp(screen Screen, backend Backend, speaker Speaker, out io.Writer, logger *slog.Logger) *App {
	return &App{
		screen:  screen,
		backend: backend,
		speaker: speaker,
		out:     out,
		logger:  logger,
	}
}

// Run reads commands from in until quit, EOF or ctx is done.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	updates, unsubscribe := a.screen.Subscribe()
	defer unsubscribe()
	go a.watch(ctx, updates)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	a.render()
	a.prompt()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil
		case line := <-lines:
			a.busy.Store(true)
			quit := a.Execute(ctx, line)
			a.busy.Store(false)
			if quit {
				return nil
			}
			a.prompt()
		}
	}
}

// watch redraws when the screen changes on its own, such as an auto-stopped capture.
func (a *App) watch(ctx context.Context, updates <-chan application.ScreenState) {
	var last application.ScreenState
	first := true
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			changed := !first && (st.Listening != last.Listening || (st.Dialog != nil) != (last.Dialog != nil))
			first = false
			last = st
			if changed && !a.busy.Load() {
				a.renderState(st)
				a.prompt()
			}
		}
	}
}

// Execute runs one command line and reports whether the user asked to quit.
func (a *App) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "v", "voice":
		a.screen.ToggleVoice(ctx)
	case "tab":
		a.selectTab(args)
	case "reload":
		a.screen.LoadRecommendations(ctx)
	case "poi":
		a.searchPOI(ctx, args)
	case "plan":
		a.plan(ctx, strings.Join(args, " "))
	case "route":
		a.route(ctx, args)
	case "weather":
		a.document("날씨", func() (vistaapi.Document, error) {
			return a.backend.GetWeatherInfo(ctx, JejuCity)
		})
	case "traffic":
		if len(args) != 1 {
			a.printf("사용법: traffic <route-id>\n")
			return false
		}
		a.document("교통", func() (vistaapi.Document, error) {
			return a.backend.GetTrafficInfo(ctx, args[0])
		})
	case "guide":
		a.guide(ctx, args)
	case "ok":
		a.screen.DismissDialog()
	case "help", "?":
		a.help()
		return false
	case "quit", "exit", "q":
		return true
	default:
		a.printf("알 수 없는 명령: %s (help)\n", fields[0])
		return false
	}

	a.render()
	return false
}

func (a *App) selectTab(args []string) {
	if len(args) != 1 {
		a.printf("사용법: tab <1-%d>\n", len(domain.Tabs))
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(domain.Tabs) {
		a.printf("사용법: tab <1-%d>\n", len(domain.Tabs))
		return
	}
	a.screen.SelectTab(domain.Tabs[n-1])
}

// searchPOI takes an optional category followed by a free text query.
func (a *App) searchPOI(ctx context.Context, args []string) {
	var category, query string
	if len(args) > 0 {
		category = args[0]
		if category == "-" || category == "all" {
			category = ""
		}
		query = strings.Join(args[1:], " ")
	}
	pois := a.screen.SearchPOI(ctx, query, category)
	a.logger.Info("POI search", "category", category, "query", query, "results", len(pois))
}

func (a *App) plan(ctx context.Context, query string) {
	if query == "" {
		a.printf("사용법: plan <여행 요청>\n")
		return
	}
	current := JejuCity
	resp, err := a.backend.GenerateTravelPlan(ctx, query, &current)
	if err != nil {
		a.logger.Warn("travel plan failed", "error", err)
		a.printf("여행 계획을 만들 수 없습니다: %v\n", err)
		return
	}

	p := resp.Plan
	a.printf("여행 계획 (%s, %s)\n", p.TravelStyle, p.RecommendedDuration)
	for i, w := range p.Waypoints {
		a.printf("  %d. %s [%s] %d분\n", i+1, w.Name, w.Type, w.EstimatedTime)
	}
	if p.Description != "" {
		a.printf("  %s\n", p.Description)
	}
}

func (a *App) route(ctx context.Context, args []string) {
	if len(args) < 2 {
		a.printf("사용법: route <출발> <도착> [travel_style]\n")
		return
	}
	req := vistaapi.RouteRequest{Start: args[0], End: args[1]}
	if len(args) > 2 {
		req.Preferences.TravelStyle = args[2]
	}

	resp, err := a.backend.CalculateRoute(ctx, req)
	if err != nil {
		a.logger.Warn("route calculation failed", "error", err)
		a.printf("경로를 계산할 수 없습니다: %v\n", err)
		return
	}

	r := resp.Route
	a.printf("%s → %s: %.1fkm, %.0f분, 경관 점수 %.1f\n",
		req.Start, req.End, r.Distance, r.Duration, r.JejuFeatures.TotalSceneryScore)
	for _, line := range r.JejuFeatures.VoiceNavigation {
		a.printf("  🗣 %s\n", line)
	}
}

func (a *App) guide(ctx context.Context, args []string) {
	if len(args) < 1 {
		a.printf("사용법: guide <route-id> [step]\n")
		return
	}
	routeID, err := strconv.Atoi(args[0])
	if err != nil {
		a.printf("잘못된 경로 번호: %s\n", args[0])
		return
	}
	step := 0
	if len(args) > 1 {
		if step, err = strconv.Atoi(args[1]); err != nil {
			a.printf("잘못된 단계: %s\n", args[1])
			return
		}
	}

	doc, err := a.backend.GenerateVoiceNavigation(ctx, routeID, step)
	if err != nil {
		a.logger.Warn("voice navigation failed", "error", err)
		a.printf("음성 안내를 가져올 수 없습니다: %v\n", err)
		return
	}

	text := guidanceText(doc)
	if text == "" {
		a.printDocument("음성 안내", doc)
		return
	}
	a.printf("🗣 %s\n", text)
	if err := a.speaker.Speak(ctx, text, domain.DefaultSpeechOptions()); err != nil {
		a.logger.Warn("speaking guidance", "error", err)
	}
}

// guidanceText picks the spoken sentence out of a navigation document.
func guidanceText(doc vistaapi.Document) string {
	for _, key := range []string{"text", "guidance", "message"} {
		if s, ok := doc[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (a *App) document(title string, fetch func() (vistaapi.Document, error)) {
	doc, err := fetch()
	if err != nil {
		a.logger.Warn("backend request failed", "what", title, "error", err)
		a.printf("%s 정보를 가져올 수 없습니다: %v\n", title, err)
		return
	}
	a.printDocument(title, doc)
}

func (a *App) printDocument(title string, doc vistaapi.Document) {
	data, err := json.MarshalIndent(doc, "  ", "  ")
	if err != nil {
		a.printf("%s: %v\n", title, doc)
		return
	}
	a.printf("%s\n  %s\n", title, data)
}

func (a *App) help() {
	a.printf(`명령:
  v                      음성 인식 시작/종료
  tab <1-4>              탭 선택
  reload                 추천 코스 새로고침
  poi [category] [검색어]  주변 장소 검색 (category: cafe, restaurant, tourist_attraction, all)
  plan <요청>             여행 계획 생성
  route <출발> <도착>       경로 계산
  weather                현재 날씨
  traffic <route-id>     교통 정보
  guide <route-id> [단계]  음성 길 안내
  ok                     알림 닫기
  quit                   종료
`)
}

func (a *App) render() {
	a.renderState(a.screen.Snapshot())
}

func (a *App) renderState(st application.ScreenState) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	io.WriteString(a.out, "\n")
	Render(a.out, st)
}

func (a *App) prompt() {
	a.printf("> ")
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}
