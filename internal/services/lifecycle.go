package services

import (
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
)

// allowedTransitions — фиксированная таблица смежности машины состояний
// заявки. Всё, чего здесь нет (включая переход в тот же статус), запрещено.
//
//	NEW         -> IN_PROGRESS
//	IN_PROGRESS -> REPAIRED | SCRAP
//	REPAIRED    -> (финальный)
//	SCRAP       -> (финальный)
var allowedTransitions = map[string][]string{
	constants.StatusNew:        {constants.StatusInProgress},
	constants.StatusInProgress: {constants.StatusRepaired, constants.StatusScrap},
	constants.StatusRepaired:   {},
	constants.StatusScrap:      {},
}

// AssertValidTransition — чистая проверка по таблице, без скрытого состояния.
// Дополнительные бизнес-правила (техник назначен, duration_hours) живут в
// оркестраторе: у них есть контекст, которого у машины состояний нет.
func AssertValidTransition(from, to string) error {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return apperrors.NewInvalidTransitionError(from, to)
}
