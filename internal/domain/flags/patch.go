package flags

// Операции JSON-Patch, которые понимает сервис флагов.
// replace используется только если property уже существует,
// иначе сервис отклоняет патч.
const (
	PatchOpAdd     = "add"
	PatchOpReplace = "replace"
)

// PatchInstruction - одна операция JSON-Patch
type PatchInstruction struct {
	Op    string        `json:"op"`
	Path  string        `json:"path"`
	Value PropertyValue `json:"value"`
}

// PatchRequest - тело PATCH-запроса к эндпоинту флага
type PatchRequest struct {
	Patch []PatchInstruction `json:"patch"`
}

// NewExpiryPatch собирает патч, записывающий дату истечения
// в custom property с именем propertyName
func NewExpiryPatch(op, propertyName, expiryDate string) PatchRequest {
	return PatchRequest{
		Patch: []PatchInstruction{
			{
				Op:   op,
				Path: "/customProperties/" + propertyName,
				Value: PropertyValue{
					Name:  propertyName,
					Value: []string{expiryDate},
				},
			},
		},
	}
}
