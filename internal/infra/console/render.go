package console

import (
	"fmt"
	"io"
	"strings"

	"vista-nav/internal/application"
	"vista-nav/internal/domain"
)

const rule = "────────────────────────────────────────"

// Render draws one frame of the screen.
func Render(w io.Writer, st application.ScreenState) {
	var b strings.Builder

	fmt.Fprintf(&b, "VISTA   📍 %s\n", st.Location)
	b.WriteString(rule + "\n")
	b.WriteString("여행의 모든 순간, VISTA와 함께\n\n")

	if st.Listening {
		b.WriteString("[🎤 듣고 있습니다... (v: 멈추기)]\n\n")
	} else {
		b.WriteString("[🎤 여행 플랜 말하기 (v)]\n\n")
	}

	b.WriteString("추천 코스/장소\n")
	switch {
	case st.Loading:
		b.WriteString("  추천 코스를 불러오는 중...\n")
	case len(st.Recommendations) == 0:
		b.WriteString("  (없음)\n")
	default:
		for i, r := range st.Recommendations {
			writeRoute(&b, i+1, r)
		}
	}

	if len(st.NearbyPOIs) > 0 {
		b.WriteString("\n주변 장소\n")
		for _, p := range st.NearbyPOIs {
			fmt.Fprintf(&b, "  - %s (%s) ★ %.1f · %.1fkm\n", p.Name, p.Category, p.Rating, p.DistanceKm)
		}
	}

	if st.VoiceResult != nil {
		fmt.Fprintf(&b, "\n최근 인식: \"%s\" [%s]\n", st.VoiceResult.Text, st.VoiceResult.Intent)
	}

	b.WriteString(rule + "\n")
	writeTabBar(&b, st.ActiveTab)

	if st.Dialog != nil {
		fmt.Fprintf(&b, "\n┌ %s\n", st.Dialog.Title)
		for _, line := range strings.Split(st.Dialog.Message, "\n") {
			fmt.Fprintf(&b, "│ %s\n", line)
		}
		b.WriteString("└ (ok: 확인)\n")
	}

	io.WriteString(w, b.String())
}

func writeRoute(b *strings.Builder, n int, r domain.Route) {
	title := r.Title
	if r.SceneryScore > 0 {
		title = fmt.Sprintf("%s  ★ %.1f", title, r.SceneryScore)
	}
	fmt.Fprintf(b, "  %d. %s\n", n, title)
	if r.Subtitle != "" {
		fmt.Fprintf(b, "     %s\n", r.Subtitle)
	}

	var meta []string
	if r.DurationMin > 0 {
		meta = append(meta, fmt.Sprintf("%d시간", int(r.Duration().Hours())))
		if r.DistanceKm > 0 {
			meta = append(meta, fmt.Sprintf("%gkm", r.DistanceKm))
		}
	}
	if r.Difficulty != "" {
		meta = append(meta, string(r.Difficulty))
	}
	if len(meta) > 0 {
		fmt.Fprintf(b, "     %s\n", strings.Join(meta, " · "))
	}
}

func writeTabBar(b *strings.Builder, active domain.Tab) {
	items := make([]string, len(domain.Tabs))
	for i, t := range domain.Tabs {
		if t == active {
			items[i] = fmt.Sprintf("[%d *%s*]", i+1, t)
		} else {
			items[i] = fmt.Sprintf("[%d %s]", i+1, t)
		}
	}
	b.WriteString(strings.Join(items, " ") + "\n")
}
