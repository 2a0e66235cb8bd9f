package service

import (
	"time"
	"warboard/internal/api"
	"warboard/internal/domain"
)

// upstream timestamps look like 20240115T083000.000Z
const upstreamTimeLayout = "20060102T150405.000Z"

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(upstreamTimeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil
		}
	}
	t = t.UTC()
	return &t
}

func normalizeBadge(b *api.BadgeURLs) *domain.BadgeURLs {
	if b == nil {
		return nil
	}
	return &domain.BadgeURLs{Small: b.Small, Medium: b.Medium, Large: b.Large}
}

func normalizeClan(c *api.Clan) domain.Clan {
	members := make([]domain.ClanMember, 0, len(c.MemberList))
	for _, m := range c.MemberList {
		role := m.Role
		if role == "" {
			role = "member"
		}
		members = append(members, domain.ClanMember{
			Tag:               m.Tag,
			Name:              m.Name,
			Role:              role,
			TownHallLevel:     m.TownHallLevel,
			ExpLevel:          m.ExpLevel,
			Trophies:          m.Trophies,
			Donations:         m.Donations,
			DonationsReceived: m.DonationsReceived,
			ClanRank:          m.ClanRank,
		})
	}

	memberCount := c.Members
	if memberCount == 0 {
		memberCount = len(c.MemberList)
	}

	clan := domain.Clan{
		Name:             c.Name,
		Tag:              c.Tag,
		Description:      c.Description,
		ClanLevel:        c.ClanLevel,
		Members:          memberCount,
		MemberList:       members,
		WarWins:          c.WarWins,
		WarWinStreak:     c.WarWinStreak,
		WarLog:           c.IsWarLogPublic,
		BadgeURLs:        normalizeBadge(c.BadgeURLs),
		ClanPoints:       c.ClanPoints,
		WarFrequency:     c.WarFrequency,
		RequiredTrophies: c.RequiredTrophies,
	}

	if c.ClanCapital != nil {
		districts := make([]domain.District, 0, len(c.ClanCapital.Districts))
		for _, d := range c.ClanCapital.Districts {
			districts = append(districts, domain.District{ID: d.ID, Name: d.Name, DistrictHallLevel: d.DistrictHallLevel})
		}
		clan.ClanCapital = &domain.ClanCapital{
			CapitalHallLevel: c.ClanCapital.CapitalHallLevel,
			Districts:        districts,
		}
	}
	if c.Location != nil {
		clan.Location = &domain.Location{ID: c.Location.ID, Name: c.Location.Name, IsCountry: c.Location.IsCountry}
	}
	if c.WarLeague != nil {
		clan.WarLeague = &domain.WarLeague{ID: c.WarLeague.ID, Name: c.WarLeague.Name}
	}

	return clan
}

func normalizePlayer(p *api.Player) domain.Player {
	player := domain.Player{
		Name:                    p.Name,
		Tag:                     p.Tag,
		TownHallLevel:           p.TownHallLevel,
		ExpLevel:                p.ExpLevel,
		Trophies:                p.Trophies,
		BestTrophies:            p.BestTrophies,
		WarStars:                p.WarStars,
		AttackWins:              p.AttackWins,
		DefenseWins:             p.DefenseWins,
		Role:                    p.Role,
		BuilderHallLevel:        p.BuilderHallLevel,
		BuilderBaseTrophies:     p.BuilderBaseTrophies,
		BestBuilderBaseTrophies: p.BestBuilderBaseTrophies,
	}

	if p.Clan != nil {
		player.Clan = &domain.PlayerClan{
			Tag:       p.Clan.Tag,
			Name:      p.Clan.Name,
			ClanLevel: p.Clan.ClanLevel,
			BadgeURLs: normalizeBadge(p.Clan.BadgeURLs),
		}
	}
	if p.League != nil {
		player.League = &domain.League{ID: p.League.ID, Name: p.League.Name}
		if icons := p.League.IconURLs; icons != nil {
			player.League.IconURLs = &domain.IconURLs{Tiny: icons.Tiny, Small: icons.Small, Medium: icons.Medium}
		}
	}

	return player
}

func normalizeAttack(a api.WarAttack) domain.Attack {
	return domain.Attack{
		AttackerTag:           a.AttackerTag,
		DefenderTag:           a.DefenderTag,
		Stars:                 a.Stars,
		DestructionPercentage: a.DestructionPercentage,
		Order:                 a.Order,
		Duration:              a.Duration,
	}
}

func normalizeWarClan(c api.WarClan) domain.WarClan {
	members := make([]domain.WarMember, 0, len(c.Members))
	for _, m := range c.Members {
		attacks := make([]domain.Attack, 0, len(m.Attacks))
		for _, a := range m.Attacks {
			attacks = append(attacks, normalizeAttack(a))
		}
		member := domain.WarMember{
			Tag:             m.Tag,
			Name:            m.Name,
			TownhallLevel:   m.TownhallLevel,
			MapPosition:     m.MapPosition,
			OpponentAttacks: m.OpponentAttacks,
			Attacks:         attacks,
		}
		if m.BestOpponentAttack != nil {
			best := normalizeAttack(*m.BestOpponentAttack)
			member.BestOpponentAttack = &best
		}
		members = append(members, member)
	}

	return domain.WarClan{
		Tag:                   c.Tag,
		Name:                  c.Name,
		BadgeURLs:             normalizeBadge(c.BadgeURLs),
		ClanLevel:             c.ClanLevel,
		Attacks:               c.Attacks,
		Stars:                 c.Stars,
		DestructionPercentage: c.DestructionPercentage,
		ExpEarned:             c.ExpEarned,
		Members:               members,
	}
}

func normalizeWar(w *api.ClanWar) domain.War {
	return domain.War{
		State:                w.State,
		TeamSize:             w.TeamSize,
		AttacksPerMember:     w.AttacksPerMember,
		PreparationStartTime: parseTime(w.PreparationStartTime),
		StartTime:            parseTime(w.StartTime),
		EndTime:              parseTime(w.EndTime),
		WarStartTime:         parseTime(w.WarStartTime),
		Clan:                 normalizeWarClan(w.Clan),
		Opponent:             normalizeWarClan(w.Opponent),
	}
}

// normalizeCWLGroup pairs clans with badges by index.
func normalizeCWLGroup(g *api.WarLeagueGroup, badges []*domain.BadgeURLs) domain.CWLGroup {
	clans := make([]domain.CWLClan, 0, len(g.Clans))
	for i, c := range g.Clans {
		members := make([]domain.CWLMember, 0, len(c.Members))
		for _, m := range c.Members {
			members = append(members, domain.CWLMember{Tag: m.Tag, Name: m.Name, TownHallLevel: m.TownHallLevel})
		}

		var badge *domain.BadgeURLs
		if i < len(badges) {
			badge = badges[i]
		}

		clans = append(clans, domain.CWLClan{
			Name:       c.Name,
			Tag:        c.Tag,
			BadgeURLs:  badge,
			ClanLevel:  c.ClanLevel,
			Members:    len(c.Members),
			MemberList: members,
		})
	}

	rounds := make([]domain.CWLRound, 0, len(g.Rounds))
	for _, r := range g.Rounds {
		tags := r.WarTags
		if tags == nil {
			tags = []string{}
		}
		rounds = append(rounds, domain.CWLRound{WarTags: tags})
	}

	return domain.CWLGroup{
		State:  g.State,
		Season: g.Season,
		Clans:  clans,
		Rounds: rounds,
	}
}

func normalizeWarLogClan(c api.WarLogClan) domain.WarLogClan {
	return domain.WarLogClan{
		Tag:                   c.Tag,
		Name:                  c.Name,
		BadgeURLs:             normalizeBadge(c.BadgeURLs),
		ClanLevel:             c.ClanLevel,
		Attacks:               c.Attacks,
		Stars:                 c.Stars,
		DestructionPercentage: c.DestructionPercentage,
	}
}

func normalizeWarLog(l *api.WarLog) domain.WarLog {
	wars := make([]domain.WarLogEntry, 0, len(l.Items))
	for _, w := range l.Items {
		wars = append(wars, domain.WarLogEntry{
			Result:           w.Result,
			EndTime:          parseTime(w.EndTime),
			TeamSize:         w.TeamSize,
			AttacksPerMember: w.AttacksPerMember,
			Clan:             normalizeWarLogClan(w.Clan),
			Opponent:         normalizeWarLogClan(w.Opponent),
		})
	}
	return domain.WarLog{Wars: wars}
}
