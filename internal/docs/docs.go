// Package docs регистрирует описание HTTP API для Swagger UI на /docs/*.
//
// Шаблон соответствует аннотациям обработчиков в internal/api/handlers;
// после их изменения шаблон обновляется командой swag init.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Проверка живости",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Сервис доступен", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "503": {"description": "Зависимость недоступна", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Справочник предметов",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Список предметов", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "500": {"description": "Ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/tutors": {
            "get": {
                "tags": ["Directory"],
                "summary": "Поиск репетиторов",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Строка поиска", "name": "q", "in": "query"},
                    {"type": "string", "description": "Название предмета", "name": "subject", "in": "query"},
                    {"type": "number", "description": "Максимальная ставка в час (по умолчанию 100)", "name": "max_rate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Найденные анкеты", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "400": {"description": "Некорректные параметры", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/featured": {
            "get": {
                "tags": ["Directory"],
                "summary": "Главная страница",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Подборка", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "500": {"description": "Ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/tutors/register": {
            "post": {
                "tags": ["Tutor"],
                "summary": "Регистрация репетитора",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Анкета репетитора", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TutorApplication"}}
                ],
                "responses": {
                    "201": {"description": "Анкета отправлена на проверку", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "400": {"description": "Некорректный JSON или отказ в регистрации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Email уже зарегистрирован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации анкеты", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Не удалось сохранить анкету", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Вход",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Учетные данные пользователя", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/login.Request"}}
                ],
                "responses": {
                    "200": {"description": "Успешная авторизация", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "429": {"description": "Слишком много запросов", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Выход",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Сессия закрыта", "schema": {"$ref": "#/definitions/response.OKResponse"}}
                }
            }
        },
        "/tutor/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tutor"],
                "summary": "Личный кабинет репетитора",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Личный кабинет", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "401": {"description": "Сессия истекла", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Анкета не найдена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/tutor/resume": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tutor"],
                "summary": "Завершение регистрации",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Поля анкеты", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ProfileDetails"}}
                ],
                "responses": {
                    "200": {"description": "Анкета", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "401": {"description": "Сессия истекла", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/tutor/photo": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tutor"],
                "summary": "Ссылка для загрузки фото",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Ссылка для загрузки", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "401": {"description": "Сессия истекла", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tutor"],
                "summary": "Сохранение фото",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Ключ объекта", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/photo.AttachRequest"}}
                ],
                "responses": {
                    "200": {"description": "Фото сохранено", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "403": {"description": "Чужой ключ объекта", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Анкета не найдена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "response.OKResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "OK"},
                "data": {}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "Error"},
                "error": {"type": "string", "example": "invalid request body"},
                "field": {"type": "string", "example": "email"},
                "redirect": {"type": "string", "example": "/tutor-login"}
            }
        },
        "login.Request": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "photo.AttachRequest": {
            "type": "object",
            "required": ["key"],
            "properties": {
                "key": {"type": "string"}
            }
        },
        "models.ProfileDetails": {
            "type": "object",
            "required": ["full_name", "university", "degree", "years_experience", "hourly_rate", "bio", "subject_ids"],
            "properties": {
                "full_name": {"type": "string"},
                "university": {"type": "string"},
                "degree": {"type": "string"},
                "years_experience": {"type": "integer", "minimum": 0},
                "hourly_rate": {"type": "number", "minimum": 20, "maximum": 200},
                "bio": {"type": "string"},
                "subject_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.TutorApplication": {
            "type": "object",
            "required": ["email", "password", "password_confirmation", "full_name", "university", "degree", "years_experience", "hourly_rate", "bio", "subject_ids"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "password_confirmation": {"type": "string"},
                "full_name": {"type": "string"},
                "university": {"type": "string"},
                "degree": {"type": "string"},
                "years_experience": {"type": "integer", "minimum": 0},
                "hourly_rate": {"type": "number", "minimum": 20, "maximum": 200},
                "bio": {"type": "string"},
                "subject_ids": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo содержит метаданные API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Tutora24 API",
	Description:      "Регистрация репетиторов, вход, личный кабинет и каталог",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
