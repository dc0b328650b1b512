package api

import "context"

// GetPDFTemplate returns the report boilerplate. Requires an admin token.
func (c *Client) GetPDFTemplate(ctx context.Context) (*PDFTemplate, error) {
	var template PDFTemplate
	if err := c.getJSON(ctx, "/pdf-template", nil, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// UpdatePDFTemplate replaces the report boilerplate texts.
func (c *Client) UpdatePDFTemplate(ctx context.Context, template PDFTemplate) (*PDFTemplate, error) {
	payload := map[string]string{
		"company_name":         template.CompanyName,
		"registration_details": template.RegistrationDetails,
		"disclaimer_text":      template.DisclaimerText,
		"disclosure_text":      template.DisclosureText,
		"company_data":         template.CompanyData,
	}
	var updated PDFTemplate
	if err := c.putJSON(ctx, "/pdf-template", payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
