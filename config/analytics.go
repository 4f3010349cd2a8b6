package config

import (
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

// AnalyticsSettings は集計の業務定数です。analytics.yaml で上書きできます。
// リードタイムの区切り日数と診療科グループ表はドメイン側の確認対象なので、
// コードに埋めず設定に出しています。
type AnalyticsSettings struct {
	AnalysisStart    string              `yaml:"analysisStart"`    // "yyyy-MM-dd"
	LeadTimeDays     []int               `yaml:"leadTimeDays"`     // 昇順の区切り日数
	DepartmentGroups map[string][]string `yaml:"departmentGroups"` // グループ名 → 元表記の一覧
}

// 既知の診療科グループ (固定10種)。未知の診療科は その他 に落ちます。
var departmentGroupOrder = []string{
	"総合内科",
	"発熱外来",
	"消化器内科",
	"内視鏡（胃）",
	"内視鏡（大腸）",
	"健康診断",
	"予防接種",
	"皮膚科",
	"小児科",
	"オンライン診療",
}

func defaultAnalytics() AnalyticsSettings {
	return AnalyticsSettings{
		AnalysisStart: "2025-10-02",
		LeadTimeDays:  []int{0, 1, 3, 7, 14},
		DepartmentGroups: map[string][]string{
			"総合内科":    {"内科", "一般内科", "総合内科", "総合診療科"},
			"発熱外来":    {"発熱外来", "発熱", "発熱・かぜ外来"},
			"消化器内科":   {"消化器内科", "胃腸内科", "消化器"},
			"内視鏡（胃）":  {"胃カメラ", "上部内視鏡", "胃内視鏡検査", "内視鏡（胃）"},
			"内視鏡（大腸）": {"大腸カメラ", "下部内視鏡", "大腸内視鏡検査", "内視鏡（大腸）"},
			"健康診断":    {"健康診断", "健診", "人間ドック"},
			"予防接種":    {"予防接種", "ワクチン", "インフルエンザワクチン"},
			"皮膚科":     {"皮膚科"},
			"小児科":     {"小児科"},
			"オンライン診療": {"オンライン診療", "オンライン"},
		},
	}
}

var (
	analyticsMu    sync.RWMutex
	analytics      = defaultAnalytics()
	departmentToGr map[string]string
)

func init() {
	departmentToGr = buildReverseMap(analytics.DepartmentGroups)
}

func buildReverseMap(groups map[string][]string) map[string]string {
	rev := make(map[string]string)
	for group, names := range groups {
		rev[group] = group
		for _, n := range names {
			rev[strings.TrimSpace(n)] = group
		}
	}
	return rev
}

// loadAnalytics は analytics.yaml を読み込みます。ファイルが無い場合は
// 既定値のまま成功します。
func loadAnalytics(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	loaded := defaultAnalytics()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	analyticsMu.Lock()
	analytics = loaded
	departmentToGr = buildReverseMap(loaded.DepartmentGroups)
	analyticsMu.Unlock()

	if start := locale.ParseJSTDate(loaded.AnalysisStart); start != nil {
		locale.SetAnalysisStart(*start)
	}
	return nil
}

// GroupForDepartment は診療科の元表記を固定グループへ写像します。
// 全ての入力に対して必ずどれかのグループ名を返します。
func GroupForDepartment(raw string) string {
	analyticsMu.RLock()
	defer analyticsMu.RUnlock()
	if group, ok := departmentToGr[strings.TrimSpace(raw)]; ok {
		return group
	}
	return model.DepartmentGroupOther
}

// DepartmentGroupNames は固定グループ名を表示順で返します (その他 を含む)。
func DepartmentGroupNames() []string {
	names := make([]string, 0, len(departmentGroupOrder)+1)
	names = append(names, departmentGroupOrder...)
	return append(names, model.DepartmentGroupOther)
}

// LeadTimeDays はリードタイム区分の区切り日数を返します。
func LeadTimeDays() []int {
	analyticsMu.RLock()
	defer analyticsMu.RUnlock()
	days := make([]int, len(analytics.LeadTimeDays))
	copy(days, analytics.LeadTimeDays)
	return days
}
