package airtable

type recordFields struct {
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IsProgrammer bool   `json:"is_programmer"`
	UTMSource    string `json:"utm_source"`
	UTMMedium    string `json:"utm_medium"`
	UTMCampaign  string `json:"utm_campaign"`
}

type createRecordRequest struct {
	Records []recordEnvelope `json:"records"`
}

type recordEnvelope struct {
	Fields recordFields `json:"fields"`
}

type updateRecordRequest struct {
	Fields recordFields `json:"fields"`
}

type listRecordsResponse struct {
	Records []struct {
		ID string `json:"id"`
	} `json:"records"`
}
