package create_hold

import (
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// Request модель запроса на создание софт-холда
type Request struct {
	ServiceID   int64                  // ID услуги
	ProviderID  int64                  // ID поставщика
	HolderID    int64                  // Идентификатор держателя (из заголовка, не из тела)
	PolicyClass domain.HoldPolicyClass // single | bundle
}

// Response модель ответа с созданным холдом
type Response struct {
	HoldID      string                 // ID холда (UUID)
	SlotID      int64                  // Слот, на котором зарезервирована единица
	SlotDate    time.Time              // Дата слота
	PolicyClass domain.HoldPolicyClass // Класс политики
	ExpiresAt   time.Time              // Момент истечения холда
}
