package constants

// --- СТАТУСЫ ЗАЯВОК НА ОБСЛУЖИВАНИЕ (совпадают с CHECK-констрейнтом в БД) ---
const (
	StatusNew        = "NEW"
	StatusInProgress = "IN_PROGRESS"
	StatusRepaired   = "REPAIRED"
	StatusScrap      = "SCRAP"
)

// Финальные статусы: из них переходов нет.
var FinalStatuses = []string{
	StatusRepaired,
	StatusScrap,
}

func IsFinalStatus(code string) bool {
	for _, s := range FinalStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- ТИПЫ ЗАЯВОК ---
const (
	RequestTypeCorrective = "CORRECTIVE"
	RequestTypePreventive = "PREVENTIVE"
)
