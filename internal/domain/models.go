package domain

import (
	"time"
)

type BadgeURLs struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

type IconURLs struct {
	Tiny   string `json:"tiny"`
	Small  string `json:"small"`
	Medium string `json:"medium"`
}

type District struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	DistrictHallLevel int    `json:"districtHallLevel"`
}

type ClanCapital struct {
	CapitalHallLevel int        `json:"capitalHallLevel"`
	Districts        []District `json:"districts"`
}

type Location struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsCountry bool   `json:"isCountry"`
}

type WarLeague struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ClanMember struct {
	Tag               string `json:"tag"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	TownHallLevel     int    `json:"townHallLevel"`
	ExpLevel          int    `json:"expLevel"`
	Trophies          int    `json:"trophies"`
	Donations         int    `json:"donations"`
	DonationsReceived int    `json:"donationsReceived"`
	ClanRank          int    `json:"clanRank"`
}

type Clan struct {
	Name             string       `json:"name"`
	Tag              string       `json:"tag"`
	Description      string       `json:"description"`
	ClanLevel        int          `json:"clanLevel"`
	Members          int          `json:"members"`
	MemberList       []ClanMember `json:"memberList"`
	WarWins          int          `json:"warWins"`
	WarWinStreak     int          `json:"warWinStreak"`
	WarLog           bool         `json:"warLog"`
	BadgeURLs        *BadgeURLs   `json:"badgeUrls"`
	ClanCapital      *ClanCapital `json:"clanCapital"`
	Location         *Location    `json:"location"`
	WarLeague        *WarLeague   `json:"warLeague"`
	ClanPoints       int          `json:"clanPoints"`
	WarFrequency     string       `json:"warFrequency"`
	RequiredTrophies int          `json:"requiredTrophies"`
	Cached           bool         `json:"cached"`
}

func (c Clan) MarkCached(cached bool) Clan {
	c.Cached = cached
	return c
}

type PlayerClan struct {
	Tag       string     `json:"tag"`
	Name      string     `json:"name"`
	ClanLevel int        `json:"clanLevel"`
	BadgeURLs *BadgeURLs `json:"badgeUrls"`
}

type League struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	IconURLs *IconURLs `json:"iconUrls"`
}

type Player struct {
	Name                    string      `json:"name"`
	Tag                     string      `json:"tag"`
	TownHallLevel           int         `json:"townHallLevel"`
	ExpLevel                int         `json:"expLevel"`
	Trophies                int         `json:"trophies"`
	BestTrophies            int         `json:"bestTrophies"`
	WarStars                int         `json:"warStars"`
	AttackWins              int         `json:"attackWins"`
	DefenseWins             int         `json:"defenseWins"`
	Clan                    *PlayerClan `json:"clan"`
	League                  *League     `json:"league"`
	Role                    string      `json:"role"`
	BuilderHallLevel        int         `json:"builderHallLevel"`
	BuilderBaseTrophies     int         `json:"builderBaseTrophies"`
	BestBuilderBaseTrophies int         `json:"bestBuilderBaseTrophies"`
	Cached                  bool        `json:"cached"`
}

func (p Player) MarkCached(cached bool) Player {
	p.Cached = cached
	return p
}

type Attack struct {
	AttackerTag           string  `json:"attackerTag"`
	DefenderTag           string  `json:"defenderTag"`
	Stars                 int     `json:"stars"`
	DestructionPercentage float64 `json:"destructionPercentage"`
	Order                 int     `json:"order"`
	Duration              int     `json:"duration"`
}

type WarMember struct {
	Tag                string   `json:"tag"`
	Name               string   `json:"name"`
	TownhallLevel      int      `json:"townhallLevel"`
	MapPosition        int      `json:"mapPosition"`
	OpponentAttacks    int      `json:"opponentAttacks"`
	Attacks            []Attack `json:"attacks"`
	BestOpponentAttack *Attack  `json:"bestOpponentAttack"`
}

type WarClan struct {
	Tag                   string      `json:"tag"`
	Name                  string      `json:"name"`
	BadgeURLs             *BadgeURLs  `json:"badgeUrls"`
	ClanLevel             int         `json:"clanLevel"`
	Attacks               int         `json:"attacks"`
	Stars                 int         `json:"stars"`
	DestructionPercentage float64     `json:"destructionPercentage"`
	ExpEarned             int         `json:"expEarned"`
	Members               []WarMember `json:"members"`
}

// War covers both the regular current war and a single league round.
type War struct {
	State                string     `json:"state"`
	TeamSize             int        `json:"teamSize"`
	AttacksPerMember     int        `json:"attacksPerMember"`
	PreparationStartTime *time.Time `json:"preparationStartTime"`
	StartTime            *time.Time `json:"startTime"`
	EndTime              *time.Time `json:"endTime"`
	WarStartTime         *time.Time `json:"warStartTime"`
	Clan                 WarClan    `json:"clan"`
	Opponent             WarClan    `json:"opponent"`
	Cached               bool       `json:"cached"`
}

func (w War) MarkCached(cached bool) War {
	w.Cached = cached
	return w
}

type CWLMember struct {
	Tag           string `json:"tag"`
	Name          string `json:"name"`
	TownHallLevel int    `json:"townHallLevel"`
}

type CWLClan struct {
	Name       string      `json:"name"`
	Tag        string      `json:"tag"`
	BadgeURLs  *BadgeURLs  `json:"badgeUrls"`
	ClanLevel  int         `json:"clanLevel"`
	Members    int         `json:"members"`
	MemberList []CWLMember `json:"memberList"`
}

type CWLRound struct {
	WarTags []string `json:"warTags"`
}

type CWLGroup struct {
	State  string     `json:"state"`
	Season string     `json:"season"`
	Clans  []CWLClan  `json:"clans"`
	Rounds []CWLRound `json:"rounds"`
	Cached bool       `json:"cached"`
}

func (g CWLGroup) MarkCached(cached bool) CWLGroup {
	g.Cached = cached
	return g
}

type WarLogClan struct {
	Tag                   string     `json:"tag"`
	Name                  string     `json:"name"`
	BadgeURLs             *BadgeURLs `json:"badgeUrls"`
	ClanLevel             int        `json:"clanLevel"`
	Attacks               int        `json:"attacks"`
	Stars                 int        `json:"stars"`
	DestructionPercentage float64    `json:"destructionPercentage"`
}

type WarLogEntry struct {
	Result           string     `json:"result"`
	EndTime          *time.Time `json:"endTime"`
	TeamSize         int        `json:"teamSize"`
	AttacksPerMember int        `json:"attacksPerMember"`
	Clan             WarLogClan `json:"clan"`
	Opponent         WarLogClan `json:"opponent"`
}

type WarLog struct {
	Wars   []WarLogEntry `json:"wars"`
	Cached bool          `json:"cached"`
}

func (l WarLog) MarkCached(cached bool) WarLog {
	l.Cached = cached
	return l
}
