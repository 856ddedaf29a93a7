package entity

import "time"

// Process representa la definición maestra de un proceso de fabricación
// (corte, crimpado, inspección, etc.). Code es único y siempre en mayúsculas;
// ShortCode, si existe, es un alias de una letra también único.
type Process struct {
	Code             string
	Name             string
	Seq              int  // peso de ordenamiento por defecto en catálogo
	HasMaterialInput bool // el proceso consume materiales (BOM)
	IsInspection     bool // el proceso es de inspección (CI, VI)
	ShortCode        string
	Description      string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultProcesses devuelve el catálogo incorporado de procesos de arnés de cables.
// Se usa como semilla de datos maestros; los patrones de ruta referencian estos códigos.
func DefaultProcesses() []Process {
	return []Process{
		{Code: "CA", Name: "Corte y crimpado automático", Seq: 10, HasMaterialInput: true, ShortCode: "C", IsActive: true},
		{Code: "MC", Name: "Crimpado manual", Seq: 20, HasMaterialInput: true, ShortCode: "M", IsActive: true},
		{Code: "SP", Name: "Empalme", Seq: 30, HasMaterialInput: true, ShortCode: "S", IsActive: true},
		{Code: "TW", Name: "Torcido de cables", Seq: 40, ShortCode: "T", IsActive: true},
		{Code: "HS", Name: "Termoencogido", Seq: 50, HasMaterialInput: true, ShortCode: "H", IsActive: true},
		{Code: "PA", Name: "Preensamble", Seq: 60, HasMaterialInput: true, ShortCode: "P", IsActive: true},
		{Code: "AS", Name: "Ensamble", Seq: 70, HasMaterialInput: true, ShortCode: "A", IsActive: true},
		{Code: "TE", Name: "Encintado", Seq: 80, HasMaterialInput: true, ShortCode: "E", IsActive: true},
		{Code: "CI", Name: "Inspección de circuito", Seq: 90, IsInspection: true, ShortCode: "I", IsActive: true},
		{Code: "VI", Name: "Inspección visual", Seq: 100, IsInspection: true, ShortCode: "V", IsActive: true},
	}
}
