package town

// NPC is one companion in the town roster. Titles are indexed by bond level
// band (levels 4-5, 6-7, 8-9, 10); SecretsByLevel lists what each bond level
// unlocks; OfflineWeights bias which offline events this companion generates.
type NPC struct {
	ID             string
	Name           string
	Titles         []string
	SecretsByLevel map[int][]string
	OfflineWeights map[OfflineEventType]float64
}

// TitleForLevel returns the special title earned at the given bond level,
// or empty below level 4.
func (n NPC) TitleForLevel(level int) string {
	if level < 4 || len(n.Titles) == 0 {
		return ""
	}
	idx := (level - 4) / 2
	if idx >= len(n.Titles) {
		idx = len(n.Titles) - 1
	}
	return n.Titles[idx]
}

// AllSecrets returns every secret this companion can ever reveal
func (n NPC) AllSecrets() []string {
	var all []string
	for _, secrets := range n.SecretsByLevel {
		all = append(all, secrets...)
	}
	return all
}

var roster = []NPC{
	{
		ID:     "npc_luna",
		Name:   "Luna",
		Titles: []string{"Reading Buddy", "Keeper of Stories", "Moonlit Confidant", "Luna's Chosen"},
		SecretsByLevel: map[int][]string{
			2:  {"luna_favorite_poem"},
			4:  {"luna_abandoned_manuscript"},
			6:  {"luna_midnight_walks"},
			8:  {"luna_sisters_letter"},
			10: {"luna_true_name"},
		},
		OfflineWeights: map[OfflineEventType]float64{
			OfflineMissYou:        0.3,
			OfflineWorryAbout:     0.2,
			OfflineRememberMoment: 0.3,
			OfflineDailyLife:      0.2,
		},
	},
	{
		ID:     "npc_mei",
		Name:   "Mei",
		Titles: []string{"Taste Tester", "Kitchen Partner", "Secret Recipe Keeper", "Mei's Sunshine"},
		SecretsByLevel: map[int][]string{
			2:  {"mei_burnt_first_batch"},
			4:  {"mei_grandmothers_recipe"},
			6:  {"mei_bakery_debts"},
			8:  {"mei_dream_of_traveling"},
			10: {"mei_hidden_garden"},
		},
		OfflineWeights: map[OfflineEventType]float64{
			OfflineMissYou:        0.35,
			OfflineWorryAbout:     0.25,
			OfflineRememberMoment: 0.15,
			OfflineDailyLife:      0.25,
		},
	},
	{
		ID:     "npc_rin",
		Name:   "Rin",
		Titles: []string{"First Listener", "Duet Partner", "Muse of the Square", "Rin's Melody"},
		SecretsByLevel: map[int][]string{
			2:  {"rin_stage_fright"},
			4:  {"rin_unfinished_song"},
			6:  {"rin_rejected_audition"},
			8:  {"rin_fathers_violin"},
			10: {"rin_song_written_for_you"},
		},
		OfflineWeights: map[OfflineEventType]float64{
			OfflineMissYou:        0.25,
			OfflineWorryAbout:     0.15,
			OfflineRememberMoment: 0.4,
			OfflineDailyLife:      0.2,
		},
	},
	{
		ID:     "npc_hana",
		Name:   "Hana",
		Titles: []string{"Garden Helper", "Petal Friend", "Bloom Whisperer", "Hana's Heart"},
		SecretsByLevel: map[int][]string{
			2:  {"hana_talks_to_flowers"},
			4:  {"hana_pressed_flower_diary"},
			6:  {"hana_mothers_greenhouse"},
			8:  {"hana_wilting_fear"},
			10: {"hana_flower_language_confession"},
		},
		OfflineWeights: map[OfflineEventType]float64{
			OfflineMissYou:        0.3,
			OfflineWorryAbout:     0.3,
			OfflineRememberMoment: 0.2,
			OfflineDailyLife:      0.2,
		},
	},
	{
		ID:     "npc_sora",
		Name:   "Sora",
		Titles: []string{"Deck Hand", "Tide Watcher", "Harbor Companion", "Sora's Anchor"},
		SecretsByLevel: map[int][]string{
			2:  {"sora_seasick_once"},
			4:  {"sora_message_in_bottle"},
			6:  {"sora_storm_rescue"},
			8:  {"sora_lost_crewmate"},
			10: {"sora_map_to_nowhere"},
		},
		OfflineWeights: map[OfflineEventType]float64{
			OfflineMissYou:        0.2,
			OfflineWorryAbout:     0.2,
			OfflineRememberMoment: 0.2,
			OfflineDailyLife:      0.4,
		},
	},
}

// Roster returns the fixed town companion roster
func Roster() []NPC {
	return roster
}

// NPCByID looks up a companion by ID
func NPCByID(id string) (NPC, bool) {
	for _, n := range roster {
		if n.ID == id {
			return n, true
		}
	}
	return NPC{}, false
}
