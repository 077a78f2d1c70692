package panel

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/scene"
)

func loadScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.Load(filepath.Join("..", "scene", "testdata", "bamboo-grove.yaml"))
	require.NoError(t, err)
	return s
}

func TestCurrentActor(t *testing.T) {
	s := loadScene(t)
	player := hud.Viewer{UserID: "player-1"}
	stranger := hud.Viewer{UserID: "player-2"}
	gm := hud.Viewer{UserID: "gm", IsGM: true}

	tests := []struct {
		name     string
		selected []string
		viewer   hud.Viewer
		want     string
	}{
		{"single owned token", []string{"t-lin"}, player, "lin"},
		{"nothing selected", nil, player, ""},
		{"two tokens selected", []string{"t-lin", "t-bandit-1"}, player, ""},
		{"token owned by someone else", []string{"t-lin"}, stranger, ""},
		{"gm owns everything", []string{"t-bandit-1"}, gm, "bandit"},
		{"token without owner record", []string{"t-tree"}, gm, ""},
		{"unknown token", []string{"t-ghost"}, gm, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, a, ok := CurrentActor(s, tt.selected, tt.viewer)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, a.ID)
		})
	}
}

func TestBuild(t *testing.T) {
	s := loadScene(t)
	tok, _ := s.Token("t-lin")
	a, _ := s.Actor("lin")

	d := Build(tok, a, Labels{"Equipment.Head": "Headwear"})

	assert.Equal(t, 80.0, d.HP.Percent)
	assert.Equal(t, 75.0, d.MP.Percent)
	assert.Equal(t, 20.0, d.HutiPercent)
	assert.Equal(t, 6, d.Rage.Value)
	assert.True(t, d.Rage.Overload)
	assert.Len(t, d.Rage.Dots, actor.MaxRage)

	require.Len(t, d.Shortcuts, 1, "malformed and dangling pinned moves are skipped")
	assert.Equal(t, "Willow Sweeps the Bank", d.Shortcuts[0].MoveName)
	assert.Equal(t, 5, d.Shortcuts[0].Cost.MP)

	require.Len(t, d.Consumables, 1)
	assert.Equal(t, "pill", d.Consumables[0].ID)

	var groups []string
	for _, g := range d.Equipment {
		groups = append(groups, g.Key)
	}
	assert.Equal(t, []string{"weapon", "head", "qizhen", "other"}, groups)
	assert.Equal(t, "Headwear", d.Equipment[1].Label)
	assert.Equal(t, "cloak", d.Equipment[3].Items[0].ID, "unknown armor slot goes to other")

	require.Len(t, d.Skills, 7)
	assert.Equal(t, "wuxing", d.Skills[0].Key)
	assert.Equal(t, 12, d.Skills[0].Value.Value)
	assert.Equal(t, "Wuxing", d.Skills[0].Label)
	assert.Equal(t, 4, d.Skills[2].Skills[2].Value, "shenfa/qinggong")

	require.Len(t, d.Arts, 1, "arts with no total are not learned")
	assert.Equal(t, "music", d.Arts[0].Key)

	assert.Equal(t, "water", d.Element)
	require.NotNil(t, d.Stance)
	assert.Equal(t, "Reed Bends in Wind", d.Stance.Name)
	assert.Equal(t, 2, d.Realm)
	assert.Equal(t, []Value{
		{Key: "block", Label: "Block", Value: 3},
		{Key: "dodge", Label: "Dodge", Value: 5},
		{Key: "kanpo", Label: "Kanpo", Value: 1},
		{Key: "speed", Label: "Speed", Value: 9},
	}, d.Stats)
}

func TestBuildWithoutOptionalData(t *testing.T) {
	tok := &actor.Token{ID: "t", Name: "Nameless"}
	a := &actor.Actor{ID: "a", Resources: actor.Resources{HP: &actor.Resource{Value: 5, Max: 10}}}

	d := Build(tok, a, nil)
	assert.Equal(t, "Nameless", d.Name)
	assert.Equal(t, ElementNone, d.Element)
	assert.Nil(t, d.Stance)
	assert.Equal(t, Pool{Max: 1}, d.MP)
	assert.Equal(t, 0, d.Rage.Value)
	assert.False(t, d.Rage.Overload)
	assert.Empty(t, d.Equipment)
	assert.Empty(t, d.Arts)
}

func TestCleanRichText(t *testing.T) {
	in := "<p>First&nbsp;line</p><div>Second<br/>Third</div><span>x</span>"
	assert.Equal(t, "First line\nSecond\nThird\nx", CleanRichText(in))
	assert.Equal(t, "", CleanRichText(""))
}

func TestMoveTooltipTruncatesDescription(t *testing.T) {
	item := &actor.Item{Name: "Sword Art"}
	move := &actor.Move{
		Name:        "Long Cut",
		Level:       3,
		Cost:        actor.Cost{MP: 4, Rage: 1},
		Description: strings.Repeat("a", 200),
	}

	tip := MoveTooltip(item, move, Labels{})
	assert.Contains(t, tip, "Long Cut")
	assert.Contains(t, tip, "Sword Art · Lv.3")
	assert.Contains(t, tip, "MP 4  Rage 1")
	assert.Contains(t, tip, strings.Repeat("a", 120)+"...")
	assert.NotContains(t, tip, strings.Repeat("a", 121))
}

func TestItemTooltip(t *testing.T) {
	tip := ItemTooltip(&actor.Item{Name: "Pill", Type: actor.ItemConsumable, Quantity: 3})
	assert.Contains(t, tip, "Pill x3")
	assert.Contains(t, tip, "(no description)")
	assert.Contains(t, tip, "Click to use")

	tip = ItemTooltip(&actor.Item{Name: "Hat", Type: actor.ItemArmor, Quantity: 1})
	assert.NotContains(t, tip, "x1")
	assert.Contains(t, tip, "Click to equip/unequip")
}

func TestLabelsFallback(t *testing.T) {
	l := Labels{"Skills.Qinggong": "Lightness Skill"}
	assert.Equal(t, "Lightness Skill", l.Localize("Skills.Qinggong"))
	assert.Equal(t, "Mashu", l.Localize("Skills.Mashu"))
	assert.Equal(t, "Skills.Qinggong", labelKey("Skills", "qinggong"))
}
