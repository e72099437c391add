package service

import (
	"context"

	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
)

// RepairRosters re-adds every client missing from the roster of the manager it
// records. It returns how many roster entries were restored. Clients whose
// manager no longer resolves are logged and skipped.
func (s *Service) RepairRosters(ctx context.Context) (int, error) {
	rosters := make(map[domain.ManagerID]map[domain.ClientID]struct{})
	repaired := 0

	for client, err := range s.clients.All(ctx) {
		if err != nil {
			return repaired, err
		}
		roster, ok := rosters[client.ManagerID]
		if !ok {
			manager, err := s.managers.Get(ctx, client.ManagerID)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					s.logError(ctx, "client references unknown manager", err,
						"client_id", client.ID.String(),
						"manager_id", client.ManagerID.String(),
					)
					continue
				}
				return repaired, err
			}
			roster = make(map[domain.ClientID]struct{}, len(manager.Clients))
			for _, id := range manager.Clients {
				roster[id] = struct{}{}
			}
			rosters[client.ManagerID] = roster
		}
		if _, ok := roster[client.ID]; ok {
			continue
		}
		if err := s.managers.AddClient(ctx, client.ManagerID, client.ID); err != nil {
			return repaired, err
		}
		roster[client.ID] = struct{}{}
		repaired++
		s.logInfo(ctx, "roster entry restored",
			"client_id", client.ID.String(),
			"manager_id", client.ManagerID.String(),
		)
	}

	if s.metrics != nil && repaired > 0 {
		s.metrics.AddRostersRepaired(repaired)
	}
	return repaired, nil
}
