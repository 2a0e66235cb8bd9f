package api

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

type Location struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	IsCountry   bool   `json:"isCountry"`
	CountryCode string `json:"countryCode"`
}

type League struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	IconURLs *IconURLs `json:"iconUrls"`
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

type ClanMember struct {
	Tag               string  `json:"tag"`
	Name              string  `json:"name"`
	Role              string  `json:"role"`
	TownHallLevel     int     `json:"townHallLevel"`
	ExpLevel          int     `json:"expLevel"`
	League            *League `json:"league"`
	Trophies          int     `json:"trophies"`
	ClanRank          int     `json:"clanRank"`
	PreviousClanRank  int     `json:"previousClanRank"`
	Donations         int     `json:"donations"`
	DonationsReceived int     `json:"donationsReceived"`
}

type Clan struct {
	Tag              string       `json:"tag"`
	Name             string       `json:"name"`
	Type             string       `json:"type"`
	Description      string       `json:"description"`
	Location         *Location    `json:"location"`
	BadgeURLs        *BadgeURLs   `json:"badgeUrls"`
	ClanLevel        int          `json:"clanLevel"`
	ClanPoints       int          `json:"clanPoints"`
	RequiredTrophies int          `json:"requiredTrophies"`
	WarFrequency     string       `json:"warFrequency"`
	WarWinStreak     int          `json:"warWinStreak"`
	WarWins          int          `json:"warWins"`
	WarTies          int          `json:"warTies"`
	WarLosses        int          `json:"warLosses"`
	IsWarLogPublic   bool         `json:"isWarLogPublic"`
	WarLeague        *League      `json:"warLeague"`
	Members          int          `json:"members"`
	MemberList       []ClanMember `json:"memberList"`
	ClanCapital      *ClanCapital `json:"clanCapital"`
}

type PlayerClan struct {
	Tag       string     `json:"tag"`
	Name      string     `json:"name"`
	ClanLevel int        `json:"clanLevel"`
	BadgeURLs *BadgeURLs `json:"badgeUrls"`
}

type Player struct {
	Tag                     string      `json:"tag"`
	Name                    string      `json:"name"`
	TownHallLevel           int         `json:"townHallLevel"`
	ExpLevel                int         `json:"expLevel"`
	Trophies                int         `json:"trophies"`
	BestTrophies            int         `json:"bestTrophies"`
	WarStars                int         `json:"warStars"`
	AttackWins              int         `json:"attackWins"`
	DefenseWins             int         `json:"defenseWins"`
	BuilderHallLevel        int         `json:"builderHallLevel"`
	BuilderBaseTrophies     int         `json:"builderBaseTrophies"`
	BestBuilderBaseTrophies int         `json:"bestBuilderBaseTrophies"`
	Role                    string      `json:"role"`
	Clan                    *PlayerClan `json:"clan"`
	League                  *League     `json:"league"`
}

type WarAttack struct {
	AttackerTag           string  `json:"attackerTag"`
	DefenderTag           string  `json:"defenderTag"`
	Stars                 int     `json:"stars"`
	DestructionPercentage float64 `json:"destructionPercentage"`
	Order                 int     `json:"order"`
	Duration              int     `json:"duration"`
}

type WarMember struct {
	Tag                string      `json:"tag"`
	Name               string      `json:"name"`
	TownhallLevel      int         `json:"townhallLevel"`
	MapPosition        int         `json:"mapPosition"`
	Attacks            []WarAttack `json:"attacks"`
	OpponentAttacks    int         `json:"opponentAttacks"`
	BestOpponentAttack *WarAttack  `json:"bestOpponentAttack"`
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

// ClanWar is returned by both the current war and the league round endpoints.
type ClanWar struct {
	State                string  `json:"state"`
	TeamSize             int     `json:"teamSize"`
	AttacksPerMember     int     `json:"attacksPerMember"`
	PreparationStartTime string  `json:"preparationStartTime"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	WarStartTime         string  `json:"warStartTime"`
	Clan                 WarClan `json:"clan"`
	Opponent             WarClan `json:"opponent"`
}

type LeagueGroupMember struct {
	Tag           string `json:"tag"`
	Name          string `json:"name"`
	TownHallLevel int    `json:"townHallLevel"`
}

type LeagueGroupClan struct {
	Tag       string              `json:"tag"`
	Name      string              `json:"name"`
	ClanLevel int                 `json:"clanLevel"`
	BadgeURLs *BadgeURLs          `json:"badgeUrls"`
	Members   []LeagueGroupMember `json:"members"`
}

type LeagueGroupRound struct {
	WarTags []string `json:"warTags"`
}

type WarLeagueGroup struct {
	State  string             `json:"state"`
	Season string             `json:"season"`
	Clans  []LeagueGroupClan  `json:"clans"`
	Rounds []LeagueGroupRound `json:"rounds"`
}

type WarLogClan struct {
	Tag                   string     `json:"tag"`
	Name                  string     `json:"name"`
	BadgeURLs             *BadgeURLs `json:"badgeUrls"`
	ClanLevel             int        `json:"clanLevel"`
	Attacks               int        `json:"attacks"`
	Stars                 int        `json:"stars"`
	DestructionPercentage float64    `json:"destructionPercentage"`
	ExpEarned             int        `json:"expEarned"`
}

type WarLogEntry struct {
	Result           string     `json:"result"`
	EndTime          string     `json:"endTime"`
	TeamSize         int        `json:"teamSize"`
	AttacksPerMember int        `json:"attacksPerMember"`
	Clan             WarLogClan `json:"clan"`
	Opponent         WarLogClan `json:"opponent"`
}

type WarLog struct {
	Items []WarLogEntry `json:"items"`
}
