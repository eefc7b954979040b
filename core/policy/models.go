package policy

import "strings"

// LayerPolicyRow is a row of the layer_policies table.
type LayerPolicyRow struct {
	LayerID          string `gorm:"column:layer_id;primaryKey"`
	Editable         bool   `gorm:"column:editable"`
	UniqueIDProperty string `gorm:"column:unique_id_property"`
	DisplayProperty  string `gorm:"column:display_property"`
	// ExcludedProperties is a comma separated list; NULL means not configured.
	ExcludedProperties *string `gorm:"column:excluded_properties"`
}

// TableName overrides the table name used by gorm.
func (LayerPolicyRow) TableName() string {
	return "layer_policies"
}

func (r LayerPolicyRow) toPolicy() LayerEditPolicy {
	p := LayerEditPolicy{
		LayerID:          r.LayerID,
		Editable:         r.Editable,
		UniqueIDProperty: r.UniqueIDProperty,
		DisplayProperty:  r.DisplayProperty,
	}
	if r.ExcludedProperties != nil {
		p.ExcludedProperties = splitList(*r.ExcludedProperties)
	}
	return p
}

// FieldConfigRow is a row of the layer_fields table.
type FieldConfigRow struct {
	ID       uint   `gorm:"column:id;primaryKey"`
	LayerID  string `gorm:"column:layer_id;index"`
	Position int    `gorm:"column:position"`
	Name     string `gorm:"column:name"`
	Label    string `gorm:"column:label"`
	Type     string `gorm:"column:type"`
	Required bool   `gorm:"column:required"`
	// Options is a comma separated list of allowed select values.
	Options string `gorm:"column:options"`
}

// TableName overrides the table name used by gorm.
func (FieldConfigRow) TableName() string {
	return "layer_fields"
}

func (r FieldConfigRow) toConfig() FieldConfig {
	fc := FieldConfig{
		Name:     r.Name,
		Label:    r.Label,
		Type:     FieldType(strings.ToLower(r.Type)),
		Required: r.Required,
	}
	if fc.Type == "" {
		fc.Type = FieldString
	}
	if r.Options != "" {
		fc.Options = splitList(r.Options)
	}
	return fc
}

func policyRow(p LayerEditPolicy) LayerPolicyRow {
	r := LayerPolicyRow{
		LayerID:          p.LayerID,
		Editable:         p.Editable,
		UniqueIDProperty: p.UniqueIDProperty,
		DisplayProperty:  p.DisplayProperty,
	}
	if p.ExcludedProperties != nil {
		joined := strings.Join(p.ExcludedProperties, ",")
		r.ExcludedProperties = &joined
	}
	return r
}

func fieldRow(layerID string, position int, fc FieldConfig) FieldConfigRow {
	return FieldConfigRow{
		LayerID:  layerID,
		Position: position,
		Name:     fc.Name,
		Label:    fc.Label,
		Type:     string(fc.Type),
		Required: fc.Required,
		Options:  strings.Join(fc.Options, ","),
	}
}

// RequiredColumns lists the columns each policy table must have.
var RequiredColumns = map[string][]string{
	"layer_policies": {"layer_id", "editable", "unique_id_property", "display_property", "excluded_properties"},
	"layer_fields":   {"id", "layer_id", "position", "name", "label", "type", "required", "options"},
}
