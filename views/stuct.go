package views

// 请求与响应结构

type LoadRegionRequest struct {
	Region   string `json:"region"`
	Username string `json:"username"`
}

type SaveRequest struct {
	Username string `json:"username"`
}

type GeometryRequest struct {
	Username string       `json:"username"`
	GUID     string       `json:"guid"`
	Coords   [][2]float64 `json:"coords"`
}

type CreateRequest struct {
	Username string       `json:"username"`
	TempID   string       `json:"temp_id"`
	Coords   [][2]float64 `json:"coords"`
}

type FieldRequest struct {
	Username string `json:"username"`
	GUID     string `json:"guid"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

type DeleteRequest struct {
	Username string `json:"username"`
	GUID     string `json:"guid"`
}

type UndoRequest struct {
	Username string `json:"username"`
	GUID     string `json:"guid"`
	Action   string `json:"action"`
}

// RoutePayload 一条线路的传输形态，坐标为(纬度,经度)对
type RoutePayload struct {
	GUID            string       `json:"guid"`
	Name            string       `json:"name"`
	RouteID         string       `json:"id"`
	Description     string       `json:"description"`
	Designation     string       `json:"Designation"`
	OneWay          string       `json:"OneWay"`
	Flow            string       `json:"Flow"`
	Protection      string       `json:"Protection"`
	Ownership       string       `json:"Ownership"`
	YearBuiltBefore bool         `json:"YearBuildBeforeFlag"`
	YearBuilt       string       `json:"YearBuilt"`
	AuditedOnline   bool         `json:"AuditedStreetView"`
	AuditedInPerson bool         `json:"AuditedInPerson"`
	Rejected        bool         `json:"Rejected"`
	History         string       `json:"History"`
	LastEdited      string       `json:"LastEdited"`
	WhenCreated     string       `json:"WhenCreated"`
	LengthM         int          `json:"Length_m"`
	Color           string       `json:"color"`
	Coords          [][2]float64 `json:"coords"`
}

// ProgressMessage 批量拉取时推送到前端的进度消息
type ProgressMessage struct {
	Type      string  `json:"type"`
	Completed int     `json:"completed,omitempty"`
	Total     int     `json:"total,omitempty"`
	Region    string  `json:"region,omitempty"`
	Attempt   int     `json:"attempt,omitempty"`
	DelayS    float64 `json:"delay_s,omitempty"`
	ElapsedS  float64 `json:"elapsed_s,omitempty"`
	Message   string  `json:"message,omitempty"`
}
