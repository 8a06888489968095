package mcpserver

// DocumentFormat describes the portfolio document that the tools return.
const DocumentFormat = `# Folio Portfolio Document

One JSON document per locale: portfolio.json for the default locale and
portfolio.<locale>.json for each additional one.

## Top level

| Key            | Type         | Notes                          |
|----------------|--------------|--------------------------------|
| personalInfo   | object       | single record, no id           |
| skills         | array        | records with string id         |
| projects       | array        | records with string id         |
| experience     | array        | records with string id         |
| education      | array        | optional, read-only here       |
| certifications | array        | optional, read-only here       |
| languages      | array        | optional, read-only here       |

## Records

- **skill**: name, category, experience, projects, icon
- **project**: title, description, tech (list of strings),
  metrics (list of {label, value, icon}), github, demo, gradient
- **experience**: title, company, period, location,
  achievements (list of strings), color
- **personalInfo**: name, title, description, location, email, phone,
  github, linkedin, availability

Collection order is insertion order. Ids are opaque strings assigned by
the server; never derive meaning from them.
`
