package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yusuke0018/marumie-sub004/model"
)

func TestGroupForDepartmentDefaults(t *testing.T) {
	assert.Equal(t, "総合内科", GroupForDepartment("内科"))
	assert.Equal(t, "総合内科", GroupForDepartment(" 内科 "))
	assert.Equal(t, "内視鏡（胃）", GroupForDepartment("胃カメラ"))
	assert.Equal(t, "内視鏡（大腸）", GroupForDepartment("大腸カメラ"))
	assert.Equal(t, model.DepartmentGroupOther, GroupForDepartment("整形外科"))
	assert.Equal(t, model.DepartmentGroupOther, GroupForDepartment(""))
}

func TestDepartmentGroupNamesIncludesOther(t *testing.T) {
	names := DepartmentGroupNames()
	require.Len(t, names, 11)
	assert.Equal(t, "総合内科", names[0])
	assert.Equal(t, model.DepartmentGroupOther, names[10])
}

func TestLoadAnalyticsOverride(t *testing.T) {
	restore := analytics
	restoreRev := departmentToGr
	t.Cleanup(func() {
		analyticsMu.Lock()
		analytics = restore
		departmentToGr = restoreRev
		analyticsMu.Unlock()
	})

	path := filepath.Join(t.TempDir(), "analytics.yaml")
	yaml := `leadTimeDays: [0, 2]
departmentGroups:
  総合内科: ["内科", "第二内科"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	require.NoError(t, loadAnalytics(path))

	assert.Equal(t, []int{0, 2}, LeadTimeDays())
	assert.Equal(t, "総合内科", GroupForDepartment("第二内科"))
}

func TestLoadAnalyticsMissingFileIsOK(t *testing.T) {
	require.NoError(t, loadAnalytics(filepath.Join(t.TempDir(), "nope.yaml")))
}
